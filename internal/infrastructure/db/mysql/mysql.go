// Package mysql implements the relational variant of the registration
// repository over database/sql and the go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const defaultTimeout = 10 * time.Second

// schema mirrors the registrations table already deployed. Phone carries no
// UNIQUE constraint: duplicate signups are stored as distinct rows.
const schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	firstName VARCHAR(100) NOT NULL,
	lastName  VARCHAR(100) NOT NULL,
	phone     VARCHAR(32)  NOT NULL,
	createdAt DATETIME(6)  NOT NULL,
	INDEX idx_registrations_createdAt (createdAt)
) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`

// Config captures the settings for establishing a MySQL connection pool.
type Config struct {
	DSN          string
	MaxOpenConns int
	Timeout      time.Duration
}

// Connect opens the shared connection pool, verifies connectivity with a
// ping and ensures the registrations table exists. The pool is created once
// at process start and injected into the repository; nothing reads it from
// ambient globals.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	if _, err := db.ExecContext(pingCtx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ensure schema: %w", err)
	}

	return db, nil
}
