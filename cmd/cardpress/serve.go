package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/batch/processor"
	"github.com/Malikabakr/bank-project/pkg/cli"
	"github.com/Malikabakr/bank-project/pkg/config"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/server"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/store/retention"
	"github.com/Malikabakr/bank-project/pkg/telemetry/logging"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watchConfig   bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cardpress server",
	Long: `Start the cardpress server with the specified configuration.

The server accepts spreadsheet uploads, generates one PDF per record, and
sweeps everything once the retention limit passes.

Examples:
  # Start with default config
  cardpress serve

  # Start with custom config
  cardpress serve --config /etc/cardpress/config.yaml

  # Override listen address
  cardpress serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  cardpress serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watchConfig, "watch-config", false, "reload configuration when the file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	setupLogging(cfg)

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Cardpress v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Open the artifact index
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
	fmt.Println("✓ Artifact store initialized")

	tracker := batch.NewTracker()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	renderer := render.NewRenderer(render.Options{
		ArabicFontPath: cfg.Render.ArabicFont,
		LatinFontPath:  cfg.Render.LatinFont,
	})
	proc := processor.New(processor.Options{
		Store:      fileStore,
		Tracker:    tracker,
		Renderer:   renderer,
		Metrics:    collector,
		RowTimeout: cfg.Render.RowTimeout,
	})

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	// Start the retention sweeper
	sweeper := retention.NewSweeper(fileStore, &retention.Config{
		Limit:         cfg.Retention.Limit,
		SweepInterval: cfg.Retention.SweepInterval,
		SweepSchedule: cfg.Retention.SweepSchedule,
	})
	sweeper.AddEvicter(tracker)
	sweeper.OnSweep(collector.RecordSweep)
	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start retention sweeper: %w", err)
	}
	defer sweeper.Stop()
	if next := sweeper.NextSweep(); next != nil {
		slog.Debug("retention sweeper started", "next_sweep", next)
	}
	fmt.Printf("✓ Retention sweeper started (limit %s, interval %s)\n",
		cfg.Retention.Limit, cfg.Retention.SweepInterval)

	// Hot-reload the configuration file when asked to
	if serveFlags.watchConfig {
		watcher, err := config.NewWatcher(cfgFile, nil)
		if err != nil {
			slog.Warn("failed to create config watcher", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx, func() error {
					return config.ReloadConfig(cfgFile)
				}); err != nil {
					slog.Warn("config watcher stopped", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	srv := server.NewServer(server.Options{
		Config:    cfg,
		Store:     fileStore,
		Tracker:   tracker,
		Processor: proc,
		Renderer:  renderer,
		Metrics:   collector,
	})

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// setupLogging installs the default slog handler from the telemetry config.
func setupLogging(cfg *config.Config) {
	err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		RedactPII: cfg.Telemetry.Logging.RedactPII,
	})
	if err != nil {
		// Fall back to the stock logger rather than refusing to start.
		slog.Warn("failed to configure logging", "error", err)
	}
}
