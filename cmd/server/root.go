package main

import (
	"fmt"

	"github.com/diewo77/go-facto/internal/config"
	"github.com/diewo77/go-facto/internal/db"
	"github.com/diewo77/go-facto/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is the state shared by every subcommand once the root has run.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	cleanup func() error
}

func newRootCmd() *cobra.Command {
	var debug bool
	e := &env{}

	cmd := &cobra.Command{
		Use:          "facto",
		Short:        "facto: baskets, invoices and their payment status",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			e.cfg = config.Load()
			cleanup, err := logger.Setup(logger.Config{Dev: e.cfg.App.Dev, Debug: debug})
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			e.cleanup = cleanup
			e.log = logger.L()
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if e.cleanup != nil {
				_ = e.cleanup()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.AddCommand(serveCmd(e), migrateCmd(e), seedCmd(e))
	return cmd
}

// open connects to the configured database.
func (e *env) open() (*gorm.DB, error) {
	return db.Open(e.cfg.Database, e.cfg.App.LogSQL, e.log)
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := e.open()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn, e.log); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			e.log.Info("migrations completed")
			return nil
		},
	}
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the preset VAT rates and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := e.open()
			if err != nil {
				return err
			}
			if err := db.Seed(conn, e.log); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			e.log.Info("seeding completed")
			return nil
		},
	}
}
