package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/buildconfig"
	"github.com/Harshitk-cp/lifedash/internal/config"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/Harshitk-cp/lifedash/internal/state"
	"github.com/Harshitk-cp/lifedash/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalFlags override the environment for a single invocation.
type globalFlags struct {
	backend string
	path    string
	dbURL   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "lifedash",
		Short:        "Inspect and drive the life dashboard against a local store",
		Version:      buildconfig.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "store backend: badger, postgres or memory (default from STORE_BACKEND)")
	root.PersistentFlags().StringVar(&flags.path, "path", "", "badger data directory (default from BADGER_PATH)")
	root.PersistentFlags().StringVar(&flags.dbURL, "database-url", "", "postgres connection string (default from DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at info level to stderr")

	root.AddCommand(
		newSnapshotCmd(flags),
		newInsightsCmd(flags),
		newStateCmd(flags),
		newSeedCmd(flags),
		newResetCmd(flags),
	)
	return root
}

func newSnapshotCmd(flags *globalFlags) *cobra.Command {
	var record bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Compute the current alignment snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.VisionService) error {
				if !record {
					return printJSON(cmd, svc.Preview(ctx))
				}
				snap, err := svc.ComputeAndRecord(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, snap)
			})
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "append the snapshot to the stored history")
	return cmd
}

func newInsightsCmd(flags *globalFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarise the week containing --date (default this week)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.VisionService) error {
				ref := svc.Now()
				if date != "" {
					day, err := time.ParseInLocation("2006-01-02", date, ref.Location())
					if err != nil {
						return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
					}
					ref = day.Add(12 * time.Hour)
				}
				insights, err := svc.WeeklyInsights(ctx, ref)
				if err != nil {
					return err
				}
				return printJSON(cmd, insights)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "any day in the week, as YYYY-MM-DD")
	return cmd
}

func newStateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "state <layer>",
		Short:     "Print one derived state layer",
		Args:      cobra.ExactArgs(1),
		ValidArgs: state.LayerNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.VisionService) error {
				v, err := svc.State(ctx, args[0], false)
				if err != nil {
					return fmt.Errorf("%w: %s (known: %v)", err, args[0], state.LayerNames())
				}
				return printJSON(cmd, v)
			})
		},
	}
}

func newSeedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all records with the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.VisionService) error {
				if err := svc.Seed(ctx); err != nil {
					return err
				}
				vs, err := svc.GetVision(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, vs)
			})
		},
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, func(ctx context.Context, svc *service.VisionService) error {
				if err := svc.Reset(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "reset complete")
				return err
			})
		},
	}
}

// withService opens the configured store, builds the service over it and
// closes the store once fn returns.
func withService(cmd *cobra.Command, flags *globalFlags, fn func(context.Context, *service.VisionService) error) error {
	logger, err := newLogger(flags.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := store.Options{
		Backend:     config.StoreBackend(),
		BadgerPath:  config.BadgerPath(),
		DatabaseURL: config.DatabaseURL(),
	}
	if flags.backend != "" {
		opts.Backend = flags.backend
	}
	if flags.path != "" {
		opts.BadgerPath = flags.path
	}
	if flags.dbURL != "" {
		opts.DatabaseURL = flags.dbURL
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := store.Open(ctx, opts, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	svc := service.Build(kv, logger, nil, records.Config{HistoryLimit: config.SnapshotHistoryLimit()})
	return fn(ctx, svc)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(config.ZapLevel())
	}
	return cfg.Build()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
