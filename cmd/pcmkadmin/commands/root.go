package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smesilov-dev/pacemaker/pkg/config"
	"github.com/smesilov-dev/pacemaker/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcmkadmin",
		Short: "Pacemaker operation identifier and history tooling",
		Long: `pcmkadmin works with the identifier strings the cluster uses to track
resource operations: operation keys, notification keys, transition keys,
and transition magic. It can also filter parameter sets the way the
cluster does before digesting them, and maintain a local operation
history cache.

Commands:
  - key:        build and parse operation and notification keys
  - transition: encode and decode transition keys
  - magic:      encode and decode transition magic strings
  - digest:     filter and hash operation parameter sets
  - history:    record and query the operation history cache`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newKeyCommand())
	rootCmd.AddCommand(newTransitionCommand())
	rootCmd.AddCommand(newMagicCommand())
	rootCmd.AddCommand(newDigestCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// loadConfig loads the configuration file named by --config, forcing the
// log level to debug when --verbose is set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the command logger from the loaded configuration.
func newLogger(cfg *config.Config) (*telemetry.Logger, error) {
	return telemetry.NewLogger(cfg.Telemetry.Logging)
}

// printResult writes v to stdout, as indented JSON when --json is set and
// with the plain formatter otherwise.
func printResult(v interface{}, plain func() string) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Println(plain())
	return nil
}
