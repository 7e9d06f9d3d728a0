// Package db opens the storage backend and prepares its schema.
package db

import (
	"fmt"

	"github.com/diewo77/go-facto/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured backend. Driver errors are translated into
// gorm sentinel errors so that constraint violations can be recognised.
//
// The sqlite backend is limited to one open connection: the engine is used by
// a single local writer and every command holds that connection while it runs.
func Open(cfg config.DatabaseConfig, logSQL bool, log *zap.Logger) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if logSQL {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		log.Info("connecting to database",
			zap.String("driver", cfg.Driver),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("dbname", cfg.DBName),
			zap.String("user", cfg.User))
		dialector = postgres.Open(cfg.DSN())
	default:
		log.Info("connecting to database", zap.String("driver", cfg.Driver), zap.String("path", cfg.Path))
		dialector = sqlite.Open(cfg.SQLiteDSN())
	}

	conn, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == config.DriverSQLite {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Prepare migrates the schema and installs the seed data as requested.
func Prepare(conn *gorm.DB, migrate, seed bool, log *zap.Logger) error {
	if migrate {
		if err := Migrate(conn, log); err != nil {
			return err
		}
	}
	if seed {
		if err := Seed(conn, log); err != nil {
			return err
		}
	}
	return nil
}
