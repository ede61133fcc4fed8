package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
	"github.com/smesilov-dev/pacemaker/pkg/params"
)

func newDigestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Filter and hash operation parameter sets",
		Long: `Filter operation parameter sets the way the cluster does before
digesting them, and compute the digest itself. Parameter sets are read
from YAML files mapping names to values.`,
	}

	cmd.AddCommand(newDigestFilterCommand())
	cmd.AddCommand(newDigestHashCommand())

	return cmd
}

func newDigestFilterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <params.yaml>",
		Short: "Filter a parameter set for digesting",
		Long: `Remove the attributes that do not belong in an operation digest:
per-node identifiers, feature set versions, prior digests, and meta
attributes. The timeout of a recurring operation is kept.`,
		Example: `  pcmkadmin digest filter op-params.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadParams(args[0])
			if err != nil {
				return err
			}
			ops.FilterForDigest(set)
			return printResult(set, func() string {
				out, err := yaml.Marshal(set)
				if err != nil {
					return fmt.Sprintf("marshal error: %v", err)
				}
				return string(out)
			})
		},
	}

	return cmd
}

func newDigestHashCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "hash <params.yaml>",
		Short: "Compute the digest of a parameter set",
		Long: `Compute the cluster's parameter digest. The set is filtered first
unless --raw is given.`,
		Example: `  pcmkadmin digest hash op-params.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadParams(args[0])
			if err != nil {
				return err
			}
			if !raw {
				ops.FilterForDigest(set)
			}
			digest := ops.Digest(set)
			return printResult(map[string]string{"digest": digest}, func() string {
				return digest
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "digest the set as-is, without filtering")

	return cmd
}

func loadParams(path string) (*params.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}
	set := params.New()
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}
	return set, nil
}
