package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrateCommands lists the goose commands sl-migrate accepts.
var MigrateCommands = []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"}

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return RunMigration(ctx, pool, "up")
}

// RunMigration runs one goose command against the embedded migrations.
func RunMigration(ctx context.Context, pool *pgxpool.Pool, command string, args ...string) error {
	if !isMigrateCommand(command) {
		return fmt.Errorf("unknown migrate command %q", command)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, "migrations", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func isMigrateCommand(command string) bool {
	for _, c := range MigrateCommands {
		if c == command {
			return true
		}
	}
	return false
}
