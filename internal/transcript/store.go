// Package transcript keeps a durable record of what was heard and said.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Speaker string

const (
	SpeakerUser      Speaker = "you"
	SpeakerAssistant Speaker = "jarvis"
)

type Utterance struct {
	ID        int64
	SessionID string
	Speaker   Speaker
	Text      string
	CreatedAt time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create transcript parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open transcript db: %w", err)
	}
	// The reminder goroutine and the session loop both append.
	db.SetMaxOpenConns(1)

	store, err := OpenDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func OpenDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS utterances (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			speaker TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_utterances_session ON utterances(session_id);`,
	}

	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate transcript schema: %w", err)
		}
	}
	return nil
}

// Append records one utterance.
func (s *Store) Append(ctx context.Context, sessionID string, speaker Speaker, text string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO utterances(session_id, speaker, text, created_at) VALUES (?, ?, ?, ?)`,
		sessionID,
		string(speaker),
		text,
		formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("insert utterance: %w", err)
	}
	return nil
}

// Recent returns the last limit utterances, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Utterance, error) {
	if limit <= 0 {
		return []Utterance{}, nil
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, speaker, text, created_at FROM (
			SELECT id, session_id, speaker, text, created_at
			FROM utterances
			ORDER BY id DESC
			LIMIT ?
		 ) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query utterances: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]Utterance, 0, limit)
	for rows.Next() {
		var (
			u         Utterance
			speaker   string
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.SessionID, &speaker, &u.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan utterance: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse utterance created_at: %w", err)
		}
		u.Speaker = Speaker(speaker)
		u.CreatedAt = parsed
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate utterances: %w", err)
	}
	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
