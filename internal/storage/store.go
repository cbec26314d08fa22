package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/history"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
)

// --- Profiles ---

// LoadProfile returns a conversation's stored profile. The bool is false
// when no profile has been persisted yet.
func (s *Store) LoadProfile(ctx context.Context, conversationID string) (profile.Profile, bool, error) {
	var stateJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT state_json FROM user_state WHERE conversation_id = ?", conversationID,
	).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return profile.Profile{}, false, nil
	}
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("loading profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(stateJSON), &p); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decoding profile: %w", err)
	}
	return p, true, nil
}

// SaveProfile upserts a conversation's profile.
func (s *Store) SaveProfile(ctx context.Context, conversationID string, p profile.Profile) error {
	stateJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_state (conversation_id, state_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at`,
		conversationID, string(stateJSON), p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// --- Turns ---

// AppendTurn adds a turn at the end of a conversation's history.
func (s *Store) AppendTurn(ctx context.Context, conversationID string, t history.Turn) error {
	partsJSON, err := json.Marshal(t.Parts)
	if err != nil {
		return fmt.Errorf("encoding turn parts: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO turns (conversation_id, seq, id, role, parts_json, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE conversation_id = ?), ?, ?, ?, ?)`,
		conversationID, conversationID, t.ID, t.Role, string(partsJSON),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending turn: %w", err)
	}
	return nil
}

// ListTurns returns a conversation's turns in order.
func (s *Store) ListTurns(ctx context.Context, conversationID string) ([]history.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, parts_json, created_at
		FROM turns WHERE conversation_id = ? ORDER BY seq ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing turns: %w", err)
	}
	defer rows.Close()

	var turns []history.Turn
	for rows.Next() {
		var (
			t         history.Turn
			partsJSON string
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.Role, &partsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		if err := json.Unmarshal([]byte(partsJSON), &t.Parts); err != nil {
			return nil, fmt.Errorf("decoding turn parts: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			t.CreatedAt = ts
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// --- Scheduled tasks ---

// CreateTask persists a scheduled task.
func (s *Store) CreateTask(ctx context.Context, t scheduler.Task) error {
	whenJSON, err := json.Marshal(t.When)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, conversation_id, description, when_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.ConversationID, t.Description, string(whenJSON),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// ListTasks returns a conversation's tasks in registration order.
func (s *Store) ListTasks(ctx context.Context, conversationID string) ([]scheduler.Task, error) {
	return s.queryTasks(ctx,
		"SELECT id, conversation_id, description, when_json, created_at FROM tasks WHERE conversation_id = ? ORDER BY created_at ASC, id ASC",
		conversationID)
}

// AllTasks returns every persisted task, used to re-arm timers on startup.
func (s *Store) AllTasks(ctx context.Context) ([]scheduler.Task, error) {
	return s.queryTasks(ctx,
		"SELECT id, conversation_id, description, when_json, created_at FROM tasks ORDER BY created_at ASC, id ASC")
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]scheduler.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []scheduler.Task
	for rows.Next() {
		var (
			t         scheduler.Task
			whenJSON  string
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.Description, &whenJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if err := json.Unmarshal([]byte(whenJSON), &t.When); err != nil {
			return nil, fmt.Errorf("decoding schedule: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			t.CreatedAt = ts
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task, reporting false when the id was unknown.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
