package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/landmark"
)

// Sample is a hand pose recorded together with its gesture label.
type Sample struct {
	ID         int64         `json:"id"`
	SessionID  string        `json:"session_id"`
	Gesture    string        `json:"gesture"`
	Landmarks  landmark.Pose `json:"landmarks"`
	CapturedAt time.Time     `json:"captured_at"`
}

// SampleRepository provides CRUD operations for samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts a sample and sets its ID.
func (r *SampleRepository) Create(ctx context.Context, sample *Sample) error {
	data, err := json.Marshal(sample.Landmarks)
	if err != nil {
		return fmt.Errorf("encode landmarks: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO samples (session_id, gesture, landmarks, captured_at) VALUES (?, ?, ?, ?)`,
		sample.SessionID, sample.Gesture, string(data), sample.CapturedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	sample.ID = id
	return nil
}

// Get retrieves a sample by ID.
func (r *SampleRepository) Get(ctx context.Context, id int64) (*Sample, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, gesture, landmarks, captured_at FROM samples WHERE id = ?`, id)

	s, err := scanSample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns all samples in capture order.
func (r *SampleRepository) List(ctx context.Context) ([]Sample, error) {
	return r.query(ctx,
		`SELECT id, session_id, gesture, landmarks, captured_at FROM samples ORDER BY captured_at, id`)
}

// ListByGesture returns the samples with the given label in capture order.
func (r *SampleRepository) ListByGesture(ctx context.Context, gesture string) ([]Sample, error) {
	return r.query(ctx,
		`SELECT id, session_id, gesture, landmarks, captured_at FROM samples WHERE gesture = ? ORDER BY captured_at, id`,
		gesture)
}

// ListBySession returns the samples of one session in capture order.
func (r *SampleRepository) ListBySession(ctx context.Context, sessionID string) ([]Sample, error) {
	return r.query(ctx,
		`SELECT id, session_id, gesture, landmarks, captured_at FROM samples WHERE session_id = ? ORDER BY captured_at, id`,
		sessionID)
}

// CountByGesture returns the number of samples per label.
func (r *SampleRepository) CountByGesture(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT gesture, COUNT(*) FROM samples GROUP BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return nil, err
		}
		counts[gesture] = n
	}
	return counts, rows.Err()
}

// Delete removes a sample.
func (r *SampleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, id)
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

func (r *SampleRepository) query(ctx context.Context, q string, args ...any) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (*Sample, error) {
	var s Sample
	var data string
	if err := row.Scan(&s.ID, &s.SessionID, &s.Gesture, &data, &s.CapturedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &s.Landmarks); err != nil {
		return nil, fmt.Errorf("decode landmarks of sample %d: %w", s.ID, err)
	}
	return &s, nil
}
