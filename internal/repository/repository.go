// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"streamstore/internal/config"
	"streamstore/internal/db/migrations"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when an upload record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository stores the upload history.
type Repository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType // SQL Query Builder
	Cache   *cache.Cache                  // recent history reads
}

// DatabaseFiles lists the files SQLite keeps for the database at path: the
// main file plus its WAL, shared-memory and rollback journal companions.
func DatabaseFiles(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path, path + "-wal", path + "-shm", path + "-journal"}
}

// NewRepository opens the SQLite database at cfg.Database.Path.
func NewRepository(cfg *config.Config) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Database.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Cache:   cache.New(30*time.Second, time.Minute),
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.DB.Close()
}

// ConfigureGoose points goose at the embedded migrations.
func ConfigureGoose() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("sqlite3")
}
