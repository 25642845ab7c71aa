// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analytics persists search sessions and per-result user actions
// to SQLite, and serves historical actions to the feedback ranker.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

const dbFile = "analytics.db"

// Store manages the analytics SQLite database.
type Store struct {
	db         *sql.DB
	maxHistory int
}

// NewStore opens or creates the analytics database at dataDir/analytics.db
// and creates the schema if it does not exist.
func NewStore(cfg types.AnalyticsConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 200
	}

	s := &Store{db: db, maxHistory: maxHistory}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS search_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			conversation_id TEXT,
			query TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			degraded INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS result_actions (
			id TEXT PRIMARY KEY,
			session_id TEXT REFERENCES search_sessions(id),
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			title TEXT,
			journal TEXT,
			authors TEXT,
			keywords TEXT,
			doi TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_user ON result_actions(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON search_sessions(user_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordSession persists one orchestrated search run. A zero ID is
// assigned; the stored session is returned.
func (s *Store) RecordSession(ctx context.Context, session types.SearchSession) (types.SearchSession, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_sessions (id, user_id, conversation_id, query, result_count, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.ConversationID, session.Query,
		session.ResultCount, boolToInt(session.Degraded),
		session.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return session, fmt.Errorf("inserting session: %w", err)
	}
	return session, nil
}

// RecordAction persists one accept/reject/view action on a result.
func (s *Store) RecordAction(ctx context.Context, action types.ResultAction) (types.ResultAction, error) {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}

	authors, err := json.Marshal(action.Authors)
	if err != nil {
		return action, fmt.Errorf("encoding authors: %w", err)
	}
	keywords, err := json.Marshal(action.Keywords)
	if err != nil {
		return action, fmt.Errorf("encoding keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO result_actions (id, session_id, user_id, action, title, journal, authors, keywords, doi, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		action.ID, action.SessionID, action.UserID, string(action.Action),
		action.Title, action.Journal, string(authors), string(keywords),
		action.DOI, action.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return action, fmt.Errorf("inserting action: %w", err)
	}
	return action, nil
}

// UserActions returns a user's most recent actions, newest first, capped
// at the configured history limit. Implements feedback.HistoryStore.
func (s *Store) UserActions(ctx context.Context, userID string) ([]types.ResultAction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, action, title, journal, authors, keywords, doi, created_at
		 FROM result_actions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, s.maxHistory)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var actions []types.ResultAction
	for rows.Next() {
		var a types.ResultAction
		var action, authors, keywords, createdAt string
		var sessionID sql.NullString
		if err := rows.Scan(&a.ID, &sessionID, &a.UserID, &action, &a.Title,
			&a.Journal, &authors, &keywords, &a.DOI, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		a.SessionID = sessionID.String
		a.Action = types.ActionType(action)
		if err := json.Unmarshal([]byte(authors), &a.Authors); err != nil {
			a.Authors = nil
		}
		if err := json.Unmarshal([]byte(keywords), &a.Keywords); err != nil {
			a.Keywords = nil
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			a.CreatedAt = t
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
