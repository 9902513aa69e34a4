package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// SQLiteStore is a durable session store. The turn log and the stage-data
// map are stored as JSON blobs; a session is the whole durable footprint,
// plans are always recomputed.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Verify SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, "create data dir", err)
	}

	dbPath := filepath.Join(dataDir, "planora.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, "open database", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreMigrate, "migrate schema", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		current_stage TEXT NOT NULL,
		is_complete INTEGER NOT NULL DEFAULT 0,
		messages_json TEXT NOT NULL,
		stage_data_json TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get loads a session by id, returning (nil, nil) when absent.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess          Session
		currentStage  string
		messagesJSON  string
		stageDataJSON string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, current_stage, is_complete, messages_json, stage_data_json, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &currentStage, &sess.IsComplete, &messagesJSON, &stageDataJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "load session", err)
	}

	st, err := stage.Parse(currentStage)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "stored stage is invalid", err)
	}
	sess.CurrentStage = st

	if err := json.Unmarshal([]byte(messagesJSON), &sess.Messages); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "decode turn log", err)
	}
	if err := json.Unmarshal([]byte(stageDataJSON), &sess.StageData); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "decode stage data", err)
	}
	if sess.StageData == nil {
		sess.StageData = make(map[stage.Stage]json.RawMessage)
	}

	return &sess, nil
}

// Save upserts the full session row.
func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	messagesJSON, err := json.Marshal(sess.Messages)
	if err != nil {
		return fmt.Errorf("encode turn log: %w", err)
	}
	stageDataJSON, err := json.Marshal(sess.StageData)
	if err != nil {
		return fmt.Errorf("encode stage data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, current_stage, is_complete, messages_json, stage_data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_stage = excluded.current_stage,
			is_complete = excluded.is_complete,
			messages_json = excluded.messages_json,
			stage_data_json = excluded.stage_data_json,
			updated_at = excluded.updated_at
	`, sess.ID, string(sess.CurrentStage), sess.IsComplete,
		string(messagesJSON), string(stageDataJSON), sess.CreatedAt, time.Now().UTC())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreQuery, "save session", err)
	}

	return nil
}

// Delete removes the session row; deleting an unknown id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return errors.Wrap(errors.ErrCodeStoreQuery, "delete session", err)
	}
	return nil
}

// Ping verifies the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
