package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite-backed store for all marketplace entities. It
// implements the per-entity repository interfaces in internal/domain.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "database").Logger()
	}
	log.Info().Str("path", path).Msg("database initialized")

	return &DB{DB: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            owner_id INTEGER NOT NULL REFERENCES users(id),
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            request_id INTEGER
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_id INTEGER NOT NULL REFERENCES items(id),
            booker_id INTEGER NOT NULL REFERENCES users(id),
            start_date TEXT NOT NULL,
            end_date TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'WAITING'
        )`,
		`CREATE TABLE IF NOT EXISTS requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            description TEXT NOT NULL,
            requester_id INTEGER NOT NULL REFERENCES users(id),
            created TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_id INTEGER NOT NULL REFERENCES items(id),
            text TEXT NOT NULL,
            author_name TEXT NOT NULL,
            created TEXT NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_requester_id ON requests(requester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("exec %s: %w", query, err)
		}
	}
	return nil
}

// placeholders builds "?, ?, ?" for IN clauses and the matching args.
func placeholders(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}
