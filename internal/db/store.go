package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an instance id has no stored workflow.
var ErrNotFound = errors.New("workflow not found")

// Store persists workflow checkpoints and their event timeline.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RunInfo is one row of the workflow listing.
type RunInfo struct {
	InstanceID   string
	CreatedAt    string
	UpdatedAt    string
	Autonomy     string
	Language     string
	Status       string
	CurrentStage string
}

// Event is a timeline entry attached to a checkpoint.
type Event struct {
	Type     string
	Message  string
	DataJSON string
}

// EventRecord is a stored timeline entry.
type EventRecord struct {
	Seq     int
	TS      string
	Type    string
	Message string
}

// CreateInstance inserts the workflow row and a workflow_started event.
func (s *Store) CreateInstance(ctx context.Context, info RunInfo, requirements, snapshotJSON string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin create instance: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO workflows(instance_id, created_at, updated_at, autonomy, language, status, current_stage, requirements, snapshot_json)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.InstanceID, now, now, info.Autonomy, info.Language, info.Status, info.CurrentStage, requirements, snapshotJSON); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert workflow: %w", err)
	}
	if err := s.insertEvent(ctx, tx, info.InstanceID, "workflow_started", "workflow started", ""); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create instance: %w", err)
	}
	return nil
}

// SaveCheckpoint replaces the stored snapshot and appends events in one
// transaction, so a crash never leaves a half-written checkpoint.
func (s *Store) SaveCheckpoint(ctx context.Context, instanceID, status, currentStage, snapshotJSON string, events []Event) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin checkpoint: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE workflows SET updated_at=?, status=?, current_stage=?, snapshot_json=? WHERE instance_id=?`,
		now, status, currentStage, snapshotJSON, instanceID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update workflow: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("checkpoint %s: %w", instanceID, ErrNotFound)
	}
	for _, ev := range events {
		if err := s.insertEvent(ctx, tx, instanceID, ev.Type, ev.Message, ev.DataJSON); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot JSON for an instance.
func (s *Store) LoadSnapshot(ctx context.Context, instanceID string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT snapshot_json FROM workflows WHERE instance_id=?`, instanceID)
	var snapshot string
	if err := row.Scan(&snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("load %s: %w", instanceID, ErrNotFound)
		}
		return "", fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// ListRuns returns all workflows, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT instance_id, created_at, updated_at, autonomy, language, status, current_stage
		FROM workflows ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.InstanceID, &r.CreatedAt, &r.UpdatedAt, &r.Autonomy, &r.Language, &r.Status, &r.CurrentStage); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Events returns the timeline for an instance in sequence order.
func (s *Store) Events(ctx context.Context, instanceID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, ts, type, message FROM events WHERE instance_id=? ORDER BY seq`, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.Seq, &e.TS, &e.Type, &e.Message); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PruneRuns deletes old workflows beyond keepLast or older than keepDays.
// Zero disables the corresponding criterion. Returns the number deleted.
func (s *Store) PruneRuns(ctx context.Context, keepLast, keepDays int) (int, error) {
	deleted := 0
	if keepLast > 0 {
		res, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE instance_id NOT IN (
			SELECT instance_id FROM workflows ORDER BY created_at DESC LIMIT ?)`, keepLast)
		if err != nil {
			return deleted, fmt.Errorf("prune by count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
		}
	}
	if keepDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -keepDays).Format(time.RFC3339)
		res, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE created_at < ?`, cutoff)
		if err != nil {
			return deleted, fmt.Errorf("prune by age: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
		}
	}
	return deleted, nil
}

func (s *Store) insertEvent(ctx context.Context, tx *sql.Tx, instanceID, typ, message, dataJSON string) error {
	seq, err := s.nextSeq(ctx, tx, instanceID)
	if err != nil {
		return err
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO events(instance_id, seq, ts, type, message, data_json) VALUES(?, ?, ?, ?, ?, ?)`,
		instanceID, seq, ts, typ, message, nullableString(dataJSON)); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Store) nextSeq(ctx context.Context, tx *sql.Tx, instanceID string) (int, error) {
	var seq int
	row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM events WHERE instance_id=?`, instanceID)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("read event seq: %w", err)
	}
	return seq + 1, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
