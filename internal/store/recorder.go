package store

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/landmark"
)

// Recorder stores every received pose of one session as a sample.
type Recorder struct {
	samples   *SampleRepository
	sessionID string
	label     string
}

// NewRecorder registers sess and returns a recorder writing samples for it.
// A non-empty label replaces the gesture reported by the service, for
// collecting training data of a known gesture.
func (s *Store) NewRecorder(ctx context.Context, sess *Session, label string) (*Recorder, error) {
	if err := s.Sessions().Create(ctx, sess); err != nil {
		return nil, err
	}
	return &Recorder{samples: s.Samples(), sessionID: sess.ID, label: label}, nil
}

// Record stores result as a sample. Results without a pose are rejected.
func (r *Recorder) Record(ctx context.Context, result *landmark.Result, capturedAt time.Time) error {
	if result == nil || result.Pose == nil {
		return errors.New("record sample: result has no pose")
	}

	gesture := result.Gesture
	if r.label != "" {
		gesture = r.label
	}

	return r.samples.Create(ctx, &Sample{
		SessionID:  r.sessionID,
		Gesture:    gesture,
		Landmarks:  *result.Pose,
		CapturedAt: capturedAt,
	})
}
