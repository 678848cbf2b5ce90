// Package migrations wraps golang-migrate for schema management of the
// databases and uploads tables.
package migrations

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/vectorops/dbdock/internal/constants"
	"github.com/vectorops/dbdock/internal/logger"
)

// Options configures a migration Runner.
type Options struct {
	// SourceURL locates the .sql migration files, e.g. "file://migrations".
	SourceURL string
	// DatabaseURL is the postgres connection URL. When empty it is built
	// from the DB_* environment variables.
	DatabaseURL string
	// Attempts and Backoff control connection retries while the database
	// container is still coming up.
	Attempts int
	Backoff  time.Duration
}

// DefaultOptions returns the options used by cmd/migrate when no flags
// override them.
func DefaultOptions() Options {
	return Options{
		SourceURL: "file://migrations",
		Attempts:  5,
		Backoff:   3 * time.Second,
	}
}

// DatabaseURLFromEnv assembles a postgres URL from the DB_* environment
// variables.
func DatabaseURLFromEnv() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv(constants.EnvDBUser),
		os.Getenv(constants.EnvDBPassword),
		os.Getenv(constants.EnvDBHost),
		os.Getenv(constants.EnvDBPort),
		os.Getenv(constants.EnvDBName),
		os.Getenv(constants.EnvDBSSLMode),
	)
}

// Runner applies schema migrations against the records database.
type Runner struct {
	opts    Options
	migrate *migrate.Migrate
}

// NewRunner connects to the database and prepares a Runner, retrying the
// connection per opts while the database is still starting.
func NewRunner(opts Options) (*Runner, error) {
	if opts.DatabaseURL == "" {
		opts.DatabaseURL = DatabaseURLFromEnv()
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}

	var m *migrate.Migrate
	var err error
	for i := 0; i < opts.Attempts; i++ {
		m, err = migrate.New(opts.SourceURL, opts.DatabaseURL)
		if err == nil {
			break
		}
		logger.Warnf("Database not reachable for migrations, attempt %d/%d: %v", i+1, opts.Attempts, err)
		time.Sleep(opts.Backoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting for migrations after %d attempts: %w", opts.Attempts, err)
	}

	return &Runner{opts: opts, migrate: m}, nil
}

// Up applies all pending migrations. A database already at the latest
// version is not an error.
func (r *Runner) Up() error {
	if err := r.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logger.Info("Schema migrations applied")
	return nil
}

// Down rolls back all migrations.
func (r *Runner) Down() error {
	if err := r.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	logger.Info("Schema migrations rolled back")
	return nil
}

// Steps applies n migrations forward, or -n backward.
func (r *Runner) Steps(n int) error {
	if err := r.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying %d migration steps: %w", n, err)
	}
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (r *Runner) Version() (uint, bool, error) {
	return r.migrate.Version()
}

// Force marks the schema as being at a specific version without running
// any migrations. Used to recover from a dirty state.
func (r *Runner) Force(version int) error {
	return r.migrate.Force(version)
}
