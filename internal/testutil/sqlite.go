// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/diewo77/go-facto/internal/config"
	"github.com/diewo77/go-facto/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// OpenSQLite returns a private in-memory sqlite database named after the test.
// The schema is migrated but no row is inserted.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   nameReplacer.Replace(t.Name()) + "?mode=memory&cache=shared",
	}
	conn, err := db.Open(cfg, false, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.Migrate(conn, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// SetupDB returns a migrated in-memory database holding the preset VAT rates.
func SetupDB(t testing.TB) *gorm.DB {
	t.Helper()
	conn := OpenSQLite(t)
	if err := db.Seed(conn, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return conn
}
