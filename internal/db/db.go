// Package db owns the sqlite connection for the run-history ledger.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

var dbInitialized bool

// GetDB returns the database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	jbatchDir := filepath.Join(home, ".jbatch")
	dbPath := filepath.Join(jbatchDir, "history.db")

	if err := os.MkdirAll(jbatchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .jbatch directory: %w", err)
	}

	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if !dbInitialized {
		dbInitialized = true
		if _, err := db.Exec(SchemaSQL); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
