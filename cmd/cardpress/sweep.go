package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Malikabakr/bank-project/pkg/cli"
	"github.com/Malikabakr/bank-project/pkg/config"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/store/retention"
)

var sweepFlags struct {
	format string
}

// sweepResult is the JSON shape of a manual sweep outcome.
type sweepResult struct {
	Deleted    int    `json:"deleted"`
	Remaining  int    `json:"remaining"`
	Limit      string `json:"retention_limit"`
	DurationMS int64  `json:"duration_ms"`
}

func (r sweepResult) String() string {
	return fmt.Sprintf("deleted %d expired artifacts (%d remaining, limit %s)",
		r.Deleted, r.Remaining, r.Limit)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single retention sweep cycle",
	Long: `Run one retention sweep against the configured artifact store and exit.

Useful for external schedulers and for cleaning up after an unclean shutdown
without starting the server.

Examples:
  # Sweep with default config
  cardpress sweep

  # Machine-readable output
  cardpress sweep --format json`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVar(&sweepFlags.format, "format", "text", "output format (text, json)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	setupLogging(cfg)

	var index store.Index
	switch cfg.Storage.IndexBackend {
	case "sqlite":
		sqliteConfig := store.DefaultSQLiteIndexConfig()
		sqliteConfig.Path = cfg.Storage.IndexPath
		idx, err := store.NewSQLiteIndex(sqliteConfig)
		if err != nil {
			return fmt.Errorf("failed to open sqlite index: %w", err)
		}
		index = idx
	case "memory":
		// A fresh memory index only knows files adopted from disk during
		// store open, which is exactly what an offline sweep needs.
		index = store.NewMemoryIndex()
	default:
		return cli.NewConfigError("storage.index_backend",
			fmt.Sprintf("unsupported backend %q", cfg.Storage.IndexBackend))
	}

	fileStore, err := store.NewFileStore(store.Options{
		DataDir:          cfg.Storage.DataDir,
		MaxArtifactBytes: cfg.Storage.MaxArtifactBytes,
		Index:            index,
	})
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}
	defer fileStore.Close()

	sweeper := retention.NewSweeper(fileStore, &retention.Config{
		Limit: cfg.Retention.Limit,
	})

	ctx := cmd.Context()
	start := time.Now()
	deleted, err := sweeper.Sweep(ctx)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	remaining, err := fileStore.Count(ctx)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	result := sweepResult{
		Deleted:    deleted,
		Remaining:  int(remaining),
		Limit:      cfg.Retention.Limit.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	formatter := cli.NewFormatter(cli.OutputFormat(sweepFlags.format))
	return formatter.FormatTo(cmd.OutOrStdout(), result)
}
