package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
	"github.com/smesilov-dev/pacemaker/pkg/stores"
	"github.com/smesilov-dev/pacemaker/pkg/telemetry"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and query the operation history cache",
		Long: `Maintain a local cache of operation results. Records carry the
operation key, the transition magic the executor reported, and the
failure classification derived from them.`,
	}

	cmd.AddCommand(newHistoryRecordCommand())
	cmd.AddCommand(newHistoryGetCommand())
	cmd.AddCommand(newHistoryLatestCommand())
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

// openStore builds the store and its telemetry from the loaded
// configuration. The returned closer shuts both down.
func openStore(ctx context.Context) (*stores.SQLiteStore, *telemetry.Logger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	metrics, err := telemetry.NewMetrics(cfg.Telemetry.Metrics)
	if err != nil {
		return nil, nil, nil, err
	}
	tracer, err := telemetry.NewTracer(cfg.Telemetry.Tracing,
		cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion, cfg.Telemetry.Environment)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := stores.NewSQLiteStore(stores.Config{
		Path:            cfg.Store.Path,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	store = store.WithTelemetry(metrics, tracer)

	if err := store.Init(ctx); err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	closer := func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close history store")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("failed to shut down tracer")
		}
	}
	return store, logger.NewComponentLogger("history"), closer, nil
}

func newHistoryRecordCommand() *cobra.Command {
	var (
		rscID      string
		opType     string
		intervalMS uint32
		node       string
		magic      string
		status     int
		rc         int
		targetRC   int
		digest     string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an operation result",
		Long: `Record one operation result. When --magic is given the transition
correlation fields, status, and return codes are derived from it;
otherwise --status, --rc, and --target-rc apply.`,
		Example: `  # Record a result reported with transition magic
  pcmkadmin history record --rsc vip --op monitor --interval 10000 \
    --node node1 --magic '0:0;5:12:0:node1'

  # Record a standalone result
  pcmkadmin history record --rsc vip --op start --node node1 --rc 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, logger, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()

			rec := &stores.OperationRecord{
				RscID:      rscID,
				OpType:     opType,
				IntervalMS: intervalMS,
				Node:       node,
				Magic:      magic,
				Status:     ops.ExecStatus(status),
				RC:         rc,
				TargetRC:   targetRC,
				Digest:     digest,
				ExecutedAt: time.Now().UTC(),
			}
			if err := store.RecordResult(ctx, rec); err != nil {
				return err
			}

			logger.WithResource(rec.RscID).WithOperationKey(rec.OpKey).
				Info("operation result recorded")
			return printResult(rec, func() string {
				return rec.ID
			})
		},
	}

	cmd.Flags().StringVar(&rscID, "rsc", "", "resource id (required)")
	cmd.Flags().StringVar(&opType, "op", "", "operation type (required)")
	cmd.Flags().Uint32Var(&intervalMS, "interval", 0, "recurrence interval in milliseconds")
	cmd.Flags().StringVar(&node, "node", "", "node the operation ran on")
	cmd.Flags().StringVar(&magic, "magic", "", "transition magic reported by the executor")
	cmd.Flags().IntVar(&status, "status", int(ops.ExecDone), "execution status code")
	cmd.Flags().IntVar(&rc, "rc", 0, "return code the operation produced")
	cmd.Flags().IntVar(&targetRC, "target-rc", 0, "return code the scheduler expects")
	cmd.Flags().StringVar(&digest, "digest", "", "parameter digest at execution time")
	cmd.MarkFlagRequired("rsc")
	cmd.MarkFlagRequired("op")

	return cmd
}

func newHistoryGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one operation record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()

			rec, err := store.GetResult(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(rec, func() string { return formatRecord(rec) })
		},
	}

	return cmd
}

func newHistoryLatestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest <op_key>",
		Short: "Fetch the most recent record for an operation key",
		Example: `  pcmkadmin history latest vip_monitor_10000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()

			rec, err := store.GetLatest(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(rec, func() string { return formatRecord(rec) })
		},
	}

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var (
		rscID    string
		failures bool
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operation records",
		Example: `  # All records for one resource
  pcmkadmin history list --rsc vip

  # Failed operations cluster-wide
  pcmkadmin history list --failures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()

			var recs []*stores.OperationRecord
			switch {
			case failures:
				recs, err = store.ListFailures(ctx, limit, offset)
			case rscID != "":
				recs, err = store.ListByResource(ctx, rscID, limit, offset)
			default:
				return fmt.Errorf("either --rsc or --failures is required")
			}
			if err != nil {
				return err
			}
			return printResult(recs, func() string {
				if len(recs) == 0 {
					return "no records"
				}
				lines := make([]string, 0, len(recs))
				for _, rec := range recs {
					lines = append(lines, formatRecord(rec))
				}
				return strings.Join(lines, "\n")
			})
		},
	}

	cmd.Flags().StringVar(&rscID, "rsc", "", "list records for this resource")
	cmd.Flags().BoolVar(&failures, "failures", false, "list failed operations")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")

	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete records older than a cutoff",
		Example: `  pcmkadmin history prune --older-than 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, logger, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()

			cutoff := time.Now().UTC().Add(-olderThan)
			pruned, err := store.PruneBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			logger.Infof("pruned %d records executed before %s", pruned,
				cutoff.Format(time.RFC3339))
			return printResult(map[string]int64{"pruned": pruned}, func() string {
				return fmt.Sprintf("pruned %d records", pruned)
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour,
		"delete records executed longer ago than this")

	return cmd
}

func formatRecord(rec *stores.OperationRecord) string {
	return fmt.Sprintf("%s  %s  node=%s status=%s rc=%d failed=%t executed=%s",
		rec.ID, rec.OpKey, rec.Node, rec.Status, rec.RC, rec.Failed,
		rec.ExecutedAt.Format(time.RFC3339))
}
