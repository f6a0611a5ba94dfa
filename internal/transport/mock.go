package transport

import (
	"context"
	"sync"

	"github.com/ayusman/mudra/internal/landmark"
)

// MockBackend is a test implementation of Backend.
// It returns pre-configured results and records every call.
type MockBackend struct {
	mu        sync.Mutex
	mode      Mode
	result    *landmark.Result
	latest    *landmark.Result
	submitErr error
	fetchErr  error
	payloads  [][]byte
	fetches   int

	// OnSubmit, when set, runs inside SubmitFrame before it returns. Tests
	// use it to hold a request in flight.
	OnSubmit func()
}

var _ Backend = (*MockBackend)(nil)

// NewMockBackend creates a MockBackend speaking the given mode.
func NewMockBackend(mode Mode) *MockBackend {
	return &MockBackend{mode: mode}
}

// SetResult sets the result returned by SubmitFrame in sync mode.
func (m *MockBackend) SetResult(r *landmark.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
}

// SetLatest sets the result returned by FetchLatestResult in async mode.
func (m *MockBackend) SetLatest(r *landmark.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = r
}

// SetSubmitError sets the error returned by SubmitFrame.
func (m *MockBackend) SetSubmitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitErr = err
}

// SetFetchError sets the error returned by FetchLatestResult.
func (m *MockBackend) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

func (m *MockBackend) SubmitFrame(ctx context.Context, payload []byte) (*landmark.Result, error) {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	hook := m.OnSubmit
	m.mu.Unlock()

	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	if m.mode == ModeAsync {
		return nil, nil
	}
	return m.result, nil
}

func (m *MockBackend) FetchLatestResult(ctx context.Context) (*landmark.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.mode != ModeAsync {
		return nil, nil
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.latest, nil
}

func (m *MockBackend) Mode() Mode { return m.mode }

// Submits returns how many frames were submitted.
func (m *MockBackend) Submits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// Fetches returns how many times FetchLatestResult was called.
func (m *MockBackend) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// LastPayload returns the most recently submitted payload.
func (m *MockBackend) LastPayload() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil
	}
	return m.payloads[len(m.payloads)-1]
}
