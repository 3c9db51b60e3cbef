package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Config selects the in-memory database. Connections opened with the same
// Name share one database; an empty Name gets a fresh one.
type Config struct {
	Name string
}

// DSN returns the sqlite data source name for cfg.
func DSN(cfg Config) string {
	name := cfg.Name
	if name == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}

// Open opens an in-memory SQLite database with foreign keys on. The data
// lives as long as the returned handle; nothing is written to disk.
func Open(cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	// a shared-cache memory database disappears when its last connection
	// closes, so keep exactly one open
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return conn, nil
}
