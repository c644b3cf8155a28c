package database

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"starships-server/internal/shared/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations
var embeddedMigrations embed.FS

type DB struct {
	*sqlx.DB
	migrations fs.FS
}

type Tx struct {
	*sqlx.Tx
}

// Executor is satisfied by both *DB and *Tx so repositories can run inside or outside a transaction.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (db *DB) BeginTxContext(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx}, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and rolling back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	logger := slog.With("component", "database", "operation", "with_tx")

	tx, err := db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		logger.Debug("Transaction rolled back", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect", "driver", cfg.Driver)
	logger.Debug("Initializing database connection")

	if cfg.Driver == config.DriverSQLite {
		logger.Info("Connecting to database", "path", cfg.Path)
	} else {
		logger.Info("Connecting to database",
			"host", cfg.Host,
			"port", cfg.Port,
			"user", cfg.User,
			"database", cfg.Name,
			"sslmode", cfg.SSLMode,
			"max_open_conns", cfg.MaxOpenConns,
			"max_idle_conns", cfg.MaxIdleConns,
		)
	}

	migrations, err := migrationsFS(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sqlx.Open(cfg.Driver, cfg.DataSourceName())
	if err != nil {
		logger.Error("Failed to open database connection", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Debug("Testing database connection with ping")
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")

	return &DB{DB: sqlDB, migrations: migrations}, nil
}

func migrationsFS(cfg config.DatabaseConfig) (fs.FS, error) {
	if cfg.MigrationsPath != "" {
		return os.DirFS(cfg.MigrationsPath), nil
	}

	sub, err := fs.Sub(embeddedMigrations, "migrations/"+cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("no migrations for driver %s: %w", cfg.Driver, err)
	}
	return sub, nil
}
