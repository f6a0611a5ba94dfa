package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Session is one streaming run.
type Session struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	ServerURL string    `json:"server_url"`
	StartedAt time.Time `json:"started_at"`
}

// SessionRepository provides access to recorded sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a session. Creating an existing session is a no-op.
func (r *SessionRepository) Create(ctx context.Context, sess *Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, mode, server_url, started_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Mode, sess.ServerURL, sess.StartedAt.UTC(),
	)
	return err
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, mode, server_url, started_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Mode, &s.ServerURL, &s.StartedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all sessions, newest first.
func (r *SessionRepository) List(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mode, server_url, started_at FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Mode, &s.ServerURL, &s.StartedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and its samples.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
