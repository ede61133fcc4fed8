package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
)

func newKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Build and parse operation keys",
		Long: `Build and parse the operation keys the cluster uses to identify
resource operations, "<rsc_id>_<op_type>_<interval_ms>", and the
notification keys that wrap them.`,
	}

	cmd.AddCommand(newKeyBuildCommand())
	cmd.AddCommand(newKeyParseCommand())
	cmd.AddCommand(newKeyNotifyCommand())

	return cmd
}

func newKeyBuildCommand() *cobra.Command {
	var intervalMS uint32

	cmd := &cobra.Command{
		Use:   "build <rsc_id> <op_type>",
		Short: "Build an operation key",
		Example: `  # Key for a recurring monitor
  pcmkadmin key build vip monitor --interval 10000

  # Key for a one-shot start
  pcmkadmin key build vip start`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := ops.BuildOperationKey(args[0], args[1], intervalMS)
			if err != nil {
				return err
			}
			return printResult(map[string]string{"key": key}, func() string {
				return key
			})
		},
	}

	cmd.Flags().Uint32Var(&intervalMS, "interval", 0, "recurrence interval in milliseconds")

	return cmd
}

func newKeyParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <key>",
		Short: "Parse an operation key into its parts",
		Long: `Parse an operation key back into resource id, operation type, and
interval. Notification keys like "db_post_notify_start_0" are
recognized and reported with their underlying operation type.`,
		Example: `  pcmkadmin key parse vip_monitor_10000
  pcmkadmin key parse db_post_notify_start_0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := ops.ParseOperationKey(args[0])
			if err != nil {
				return err
			}
			return printResult(map[string]interface{}{
				"rsc_id":      parsed.RscID,
				"op_type":     parsed.OpType,
				"interval_ms": parsed.IntervalMS,
			}, func() string {
				return fmt.Sprintf("rsc_id=%s op_type=%s interval_ms=%d",
					parsed.RscID, parsed.OpType, parsed.IntervalMS)
			})
		},
	}

	return cmd
}

func newKeyNotifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <rsc_id> <pre|post> <op_type>",
		Short: "Build a notification operation key",
		Example: `  pcmkadmin key notify db post start`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := ops.BuildNotifyKey(args[0], ops.NotifyType(args[1]), args[2])
			if err != nil {
				return err
			}
			return printResult(map[string]string{"key": key}, func() string {
				return key
			})
		},
	}

	return cmd
}
