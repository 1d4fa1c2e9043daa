package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	first_timestamp TEXT,
	last_timestamp TEXT,
	message_count INTEGER NOT NULL DEFAULT 0,
	cwd TEXT,
	git_branch TEXT,
	hash TEXT
);
CREATE TABLE IF NOT EXISTS messages (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	id TEXT,
	role TEXT NOT NULL,
	timestamp TEXT,
	is_sidechain INTEGER NOT NULL DEFAULT 0,
	hash TEXT,
	content TEXT,
	PRIMARY KEY (session_id, position)
);
CREATE INDEX IF NOT EXISTS idx_messages_hash ON messages(hash);
`

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// OpenIndexDatabase opens (creating if needed) the session index database
// and ensures its schema exists
func OpenIndexDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the sessions and messages tables
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// MessageRow is a message as stored in the index database
type MessageRow struct {
	SessionID   string
	Position    int
	ID          string
	Role        string
	Timestamp   string
	IsSidechain bool
	Hash        string
	Content     string
}

// QueryMessages returns messages whose content matches a LIKE pattern.
// SQLite LIKE ignores case for ASCII letters.
func QueryMessages(db *sql.DB, pattern string, limit int) ([]MessageRow, error) {
	query := `SELECT session_id, position, COALESCE(id, ''), role, COALESCE(timestamp, ''),
		is_sidechain, COALESCE(hash, ''), COALESCE(content, '')
		FROM messages WHERE content LIKE ? ESCAPE '\'
		ORDER BY session_id, position`
	args := []any{pattern}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []MessageRow
	for rows.Next() {
		var row MessageRow
		if err := rows.Scan(&row.SessionID, &row.Position, &row.ID, &row.Role, &row.Timestamp,
			&row.IsSidechain, &row.Hash, &row.Content); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, nil
}
