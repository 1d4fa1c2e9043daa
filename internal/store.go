package internal

import (
	"database/sql"
	"fmt"
	"strings"
)

// Store indexes normalized sessions in SQLite for listing and search
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open database with the index schema
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the index database at path
func OpenStore(path string) (*Store, error) {
	db, err := OpenIndexDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession replaces the stored copy of a session in one transaction.
// Sessions are keyed by id, so a second source with the same id replaces
// the first.
func (s *Store) SaveSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM messages WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO sessions
		(id, source, first_timestamp, last_timestamp, message_count, cwd, git_branch, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Source, session.Metadata.FirstTimestamp, session.Metadata.LastTimestamp,
		session.Metadata.MessageCount, session.Metadata.CWD, session.Metadata.GitBranch, session.Metadata.Hash,
	); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages
		(session_id, position, id, role, timestamp, is_sidechain, hash, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range session.Messages {
		if _, err := stmt.Exec(session.ID, i, msg.ID, msg.Role, msg.Timestamp, msg.IsSidechain, msg.Hash, msg.Content); err != nil {
			return fmt.Errorf("failed to save message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ListSessions returns stored session summaries, newest first
func (s *Store) ListSessions() ([]SessionIndexEntry, error) {
	rows, err := s.db.Query(`SELECT id, source, COALESCE(first_timestamp, ''), COALESCE(last_timestamp, ''),
		message_count, COALESCE(cwd, ''), COALESCE(git_branch, ''), COALESCE(hash, '')
		FROM sessions ORDER BY last_timestamp DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]SessionIndexEntry, 0)
	for rows.Next() {
		var e SessionIndexEntry
		if err := rows.Scan(&e.ID, &e.Source, &e.FirstTimestamp, &e.LastTimestamp,
			&e.MessageCount, &e.CWD, &e.GitBranch, &e.Hash); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

// Search returns messages containing term, ignoring ASCII case
func (s *Store) Search(term string, limit int) ([]MessageRow, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("search term is empty")
	}
	return QueryMessages(s.db, "%"+escapeLike(term)+"%", limit)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
