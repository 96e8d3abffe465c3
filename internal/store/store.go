// Package store persists clients, products, orders and sales analyses in
// SQLite. Monetary values are stored as decimal strings, never floats.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store wraps the SQLite database shared by all repositories.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open initializes the SQLite database at the given path, creating the
// directory and schema if needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logger.Warn("failed to apply pragma", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("store opened", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			industry      TEXT NOT NULL DEFAULT '',
			contact_email TEXT NOT NULL DEFAULT '',
			tier          TEXT NOT NULL DEFAULT 'Bronze',
			user_id       INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_name_user ON clients(name, user_id)`,
		`CREATE TABLE IF NOT EXISTS products (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL DEFAULT '',
			price    TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			client_id  INTEGER REFERENCES clients(id),
			user_id    INTEGER NOT NULL DEFAULT 0,
			total      TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'COMPLETED',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id   INTEGER NOT NULL REFERENCES orders(id),
			product_id INTEGER NOT NULL REFERENCES products(id),
			quantity   INTEGER NOT NULL,
			price      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE TABLE IF NOT EXISTS sales_analysis (
			id                TEXT PRIMARY KEY,
			client_id         INTEGER NOT NULL REFERENCES clients(id),
			score             INTEGER NOT NULL,
			executive_summary TEXT NOT NULL,
			recommendation    TEXT NOT NULL,
			created_at        TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_analysis_client ON sales_analysis(client_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS sales_analysis_alerts (
			analysis_id TEXT NOT NULL REFERENCES sales_analysis(id),
			position    INTEGER NOT NULL,
			alert       TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
