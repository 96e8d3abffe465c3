package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/ai"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/analytics"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/config"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/gemini"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/importer"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/logging"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/server"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/store"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "smartcommerce",
	Short: "smartcommerce - B2B order analytics backed by Gemini",
	Long: `smartcommerce ingests per-client order history and produces
business-analytic artifacts: opportunity scoring, free-form Q&A,
scenario simulation and sales-email drafting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE:  runServe,
}

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import order history from a CSV file",
	Long: `Imports orders from a CSV file with columns:
  date, client name, product name, quantity, unit price
Unknown clients and products are created automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importUserID int64

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "smartcommerce.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	importCmd.Flags().Int64Var(&importUserID, "user", 0, "owning user id for imported orders")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Store.DatabasePath, logger.Named("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	llm := gemini.NewRESTClient(cfg.Gemini, logger.Named("gemini"))
	aiSvc := ai.New(st, st, llm, cfg.Gemini, logger.Named("ai"))
	analyticsSvc := analytics.NewService(st)

	if cfg.Import.Enabled {
		imp := importer.New(st, logger.Named("importer"))
		watcher, err := importer.NewWatcher(imp, cfg.Import.WatchDir, 0, logger.Named("watcher"))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	srv := server.New(cfg.Server, aiSvc, analyticsSvc, logger.Named("http"))
	return srv.Run(ctx)
}

func runImport(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cfg.Store.DatabasePath, logger.Named("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	imp := importer.New(st, logger.Named("importer"))
	n, err := imp.ImportFile(cmd.Context(), args[0], importUserID)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d orders\n", n)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
