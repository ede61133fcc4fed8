package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
)

func newMagicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magic",
		Short: "Encode and decode transition magic strings",
		Long: `Encode and decode transition magic,
"<op_status>:<op_rc>;<transition_key>", the string the executor reports
back so a result can be matched to the scheduler action that asked for
it.`,
	}

	cmd.AddCommand(newMagicEncodeCommand())
	cmd.AddCommand(newMagicDecodeCommand())

	return cmd
}

func newMagicEncodeCommand() *cobra.Command {
	var (
		opStatus int
		opRC     int
		targetRC int
	)

	cmd := &cobra.Command{
		Use:   "encode <transition_id> <action_id> <node>",
		Short: "Encode a transition magic string",
		Example: `  pcmkadmin magic encode 5 12 node1 --status 0 --rc 0 --target-rc 0`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			transitionID, actionID, err := parseIntPair(args[0], args[1])
			if err != nil {
				return err
			}
			magic, err := ops.EncodeTransitionMagic(ops.ExecStatus(opStatus), opRC,
				transitionID, actionID, targetRC, args[2])
			if err != nil {
				return err
			}
			return printResult(map[string]string{"magic": magic}, func() string {
				return magic
			})
		},
	}

	cmd.Flags().IntVar(&opStatus, "status", int(ops.ExecDone), "execution status code")
	cmd.Flags().IntVar(&opRC, "rc", 0, "return code the operation produced")
	cmd.Flags().IntVar(&targetRC, "target-rc", 0, "return code the scheduler expects")

	return cmd
}

func newMagicDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <magic>",
		Short: "Decode a transition magic string",
		Example: `  pcmkadmin magic decode '0:0;5:12:0:node1'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := ops.DecodeTransitionMagic(args[0])
			if err != nil {
				return err
			}
			failed := ops.DidFail(decoded.OpStatus, decoded.OpRC, decoded.Key.TargetRC)
			return printResult(map[string]interface{}{
				"op_status":     int(decoded.OpStatus),
				"op_status_str": decoded.OpStatus.String(),
				"op_rc":         decoded.OpRC,
				"transition_id": decoded.Key.TransitionID,
				"action_id":     decoded.Key.ActionID,
				"target_rc":     decoded.Key.TargetRC,
				"node_uuid":     decoded.Key.NodeUUID,
				"failed":        failed,
			}, func() string {
				return fmt.Sprintf(
					"status=%s rc=%d transition_id=%d action_id=%d target_rc=%d node=%s failed=%s",
					decoded.OpStatus, decoded.OpRC, decoded.Key.TransitionID,
					decoded.Key.ActionID, decoded.Key.TargetRC, decoded.Key.NodeUUID,
					strconv.FormatBool(failed))
			})
		},
	}

	return cmd
}
