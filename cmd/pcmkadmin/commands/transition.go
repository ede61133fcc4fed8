package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
)

func newTransitionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Encode and decode transition keys",
		Long: `Encode and decode the transition keys the scheduler attaches to
operations, "<action_id>:<transition_id>:<target_rc>:<node>". The node
field is padded to a fixed width on encode.`,
	}

	cmd.AddCommand(newTransitionEncodeCommand())
	cmd.AddCommand(newTransitionDecodeCommand())

	return cmd
}

func newTransitionEncodeCommand() *cobra.Command {
	var targetRC int

	cmd := &cobra.Command{
		Use:   "encode <transition_id> <action_id> <node>",
		Short: "Encode a transition key",
		Example: `  pcmkadmin transition encode 5 12 node1 --target-rc 0`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			transitionID, actionID, err := parseIntPair(args[0], args[1])
			if err != nil {
				return err
			}
			key, err := ops.EncodeTransitionKey(transitionID, actionID, targetRC, args[2])
			if err != nil {
				return err
			}
			return printResult(map[string]string{"key": key}, func() string {
				return key
			})
		},
	}

	cmd.Flags().IntVar(&targetRC, "target-rc", 0, "return code the scheduler expects")

	return cmd
}

func newTransitionDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <key>",
		Short: "Decode a transition key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := ops.DecodeTransitionKey(args[0])
			if err != nil {
				return err
			}
			return printResult(map[string]interface{}{
				"transition_id": decoded.TransitionID,
				"action_id":     decoded.ActionID,
				"target_rc":     decoded.TargetRC,
				"node_uuid":     decoded.NodeUUID,
			}, func() string {
				return fmt.Sprintf("transition_id=%d action_id=%d target_rc=%d node=%s",
					decoded.TransitionID, decoded.ActionID, decoded.TargetRC, decoded.NodeUUID)
			})
		},
	}

	return cmd
}

func parseIntPair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q: %w", a, err)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q: %w", b, err)
	}
	return x, y, nil
}
