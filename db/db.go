package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

// Open creates the database handle without dialing. lib/pq connects
// lazily, so a store that is unreachable at startup fails individual
// queries instead of the process; health checks stay reachable.
func Open(dsn string) (*sql.DB, error) {
	handle, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	// Configure connection pool
	handle.SetMaxOpenConns(25)
	handle.SetMaxIdleConns(25)
	handle.SetConnMaxLifetime(5 * time.Minute)

	return handle, nil
}

// Ping verifies connectivity within the given timeout. Callers decide
// whether a failure is fatal.
func Ping(handle *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := handle.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}
	return nil
}
