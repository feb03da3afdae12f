// filepath: internal/repository/schema.go
package repository

import (
	"fmt"

	"streamstore/internal/logging"

	"github.com/pressly/goose/v3"
)

// EnsureSchemaBootstrapped migrates a fresh database to the latest version.
// A database that already carries a goose version table is left untouched so
// that outdated schemas are reported by ValidateSchema instead of silently
// upgraded.
func (r *Repository) EnsureSchemaBootstrapped() error {
	var name string
	err := r.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='goose_db_version'").Scan(&name)
	if err == nil {
		return nil
	}

	logging.Log.Info("Fresh database detected, applying migrations...")
	if err := ConfigureGoose(); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	if err := goose.Up(r.DB, "."); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}

// ValidateSchema checks that the database is at the latest migration.
func (r *Repository) ValidateSchema() error {
	if err := ConfigureGoose(); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	current, err := goose.GetDBVersion(r.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	all, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := all.Last()
	if err != nil {
		return fmt.Errorf("failed to find latest migration: %w", err)
	}
	if current < last.Version {
		return fmt.Errorf("database schema is outdated (version %d, expected %d); run 'streamstore migrate up'", current, last.Version)
	}
	return nil
}
