package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hronir/engine/internal/config"
	"github.com/hronir/engine/internal/engine"
	"github.com/hronir/engine/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hronir",
	Short: "hrönir — protocol engine operator CLI",
	Long: `hronir exposes the hrönir protocol engine's programmatic surface:
storing content-addressed text, registering narrative paths, ranking
cohorts, selecting duels, casting votes, and recomputing canonicity.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.hronir/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`hronir {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(duelCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(auditCmd)
}

// openEngine opens the configured store and wires an Engine around it.
// Every subcommand calls this once in its RunE; none hold a package-level
// engine, so each `hronir` invocation builds a fresh Engine with its own
// single-writer lock. That lock does not span processes: concurrent
// invocations against the same store file are guarded only by the store's
// unique transaction sequence, which surfaces as ErrConflict.
func openEngine(ctx context.Context) (*engine.Engine, storage.Store, error) {
	var store storage.Store
	var err error
	switch cfg.Storage.Type {
	case "postgres":
		store, err = storage.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	default:
		store, err = storage.NewSQLiteStore(cfg.Storage.SQLitePath, logger)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	eng, err := engine.New(ctx, store, cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("open engine: %w", err)
	}
	return eng, store, nil
}
