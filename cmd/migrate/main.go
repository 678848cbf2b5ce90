// This file is used to run database migrations
// How to run:
// go run cmd/migrate/main.go              # Run all pending migrations
// go run cmd/migrate/main.go -down        # Rollback all migrations
// go run cmd/migrate/main.go -steps 1     # Run one migration
// go run cmd/migrate/main.go -steps -1    # Rollback one migration
// go run cmd/migrate/main.go -force 1     # Force version 1
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vectorops/dbdock/internal/db/migrations"
	"github.com/vectorops/dbdock/internal/logger"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	logger.InitializeAndConfigure()

	defaults := migrations.DefaultOptions()

	var (
		dbURL     = flag.String("db", "", "Database URL (optional, defaults to DB_* env vars)")
		migPath   = flag.String("path", defaults.SourceURL, "Path to migration files")
		down      = flag.Bool("down", false, "Roll back migrations")
		steps     = flag.Int("steps", 0, "Number of migrations to apply (up or down)")
		force     = flag.Int("force", -1, "Force a specific version")
		retries   = flag.Int("retries", defaults.Attempts, "Number of connection retries")
		retryWait = flag.Duration("retry-wait", defaults.Backoff, "Wait time between retries")
	)
	flag.Parse()

	opts := migrations.Options{
		SourceURL:   *migPath,
		DatabaseURL: *dbURL,
		Attempts:    *retries,
		Backoff:     *retryWait,
	}

	runner, err := migrations.NewRunner(opts)
	if err != nil {
		logger.Fatalf("Failed to prepare migrations: %v", err)
	}

	// Handle force version
	if *force >= 0 {
		if err := runner.Force(*force); err != nil {
			logger.Fatalf("Failed to force version %d: %v", *force, err)
		}
		logger.Infof("Successfully forced version to %d", *force)
		os.Exit(0)
	}

	// Handle steps
	if *steps != 0 {
		if err := runner.Steps(*steps); err != nil {
			logger.Fatalf("Failed to apply %d steps: %v", *steps, err)
		}
		logger.Infof("Successfully applied %d steps", *steps)
		os.Exit(0)
	}

	// Handle up/down
	if *down {
		if err := runner.Down(); err != nil {
			logger.Fatalf("Migration rollback failed: %v", err)
		}
	} else {
		if err := runner.Up(); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
	}

	version, dirty, err := runner.Version()
	if err != nil {
		logger.Warnf("Could not get final version: %v", err)
	} else {
		logger.InfoWithFields("Current migration version", map[string]interface{}{
			"version": version,
			"dirty":   dirty,
		})
	}
}
