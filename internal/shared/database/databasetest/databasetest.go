// Package databasetest opens throwaway migrated SQLite databases for package tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"starships-server/internal/shared/config"
	"starships-server/internal/shared/database"
)

func Config(t *testing.T) config.DatabaseConfig {
	t.Helper()

	return config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "starships.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	}
}

// Open returns a migrated database that is closed when the test ends.
func Open(t *testing.T) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Connect(ctx, Config(t))
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}
