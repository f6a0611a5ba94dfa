package view

import "sync"

// Event names recorded by MockBinder.
const (
	EventShowLoading          = "ShowLoading"
	EventHideLoading          = "HideLoading"
	EventShowPermissionPrompt = "ShowPermissionPrompt"
	EventHidePermissionPrompt = "HidePermissionPrompt"
	EventShowStream           = "ShowStream"
	EventHideStream           = "HideStream"
	EventStatus               = "SetStatusText"
	EventError                = "ReportError"
)

// Event is one call received by MockBinder.
type Event struct {
	Name string
	Text string
}

// MockBinder is a test Binder that records every call.
type MockBinder struct {
	mu     sync.Mutex
	events []Event
	status string
}

var _ Binder = (*MockBinder)(nil)

// NewMockBinder creates an empty MockBinder.
func NewMockBinder() *MockBinder {
	return &MockBinder{}
}

func (m *MockBinder) ShowLoading()          { m.add(Event{Name: EventShowLoading}) }
func (m *MockBinder) HideLoading()          { m.add(Event{Name: EventHideLoading}) }
func (m *MockBinder) ShowPermissionPrompt() { m.add(Event{Name: EventShowPermissionPrompt}) }
func (m *MockBinder) HidePermissionPrompt() { m.add(Event{Name: EventHidePermissionPrompt}) }
func (m *MockBinder) ShowStream()           { m.add(Event{Name: EventShowStream}) }
func (m *MockBinder) HideStream()           { m.add(Event{Name: EventHideStream}) }

func (m *MockBinder) SetStatusText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = text
	m.events = append(m.events, Event{Name: EventStatus, Text: text})
}

func (m *MockBinder) ReportError(context string, err error) {
	text := ErrorText(context, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = text
	m.events = append(m.events, Event{Name: EventError, Text: text})
}

// Events returns a copy of the recorded calls.
func (m *MockBinder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Names returns the names of the recorded calls in order.
func (m *MockBinder) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = e.Name
	}
	return names
}

// Statuses returns every status text set, including error reports.
func (m *MockBinder) Statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.Name == EventStatus || e.Name == EventError {
			out = append(out, e.Text)
		}
	}
	return out
}

// Status returns the current status text.
func (m *MockBinder) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Count returns how many calls named name were recorded.
func (m *MockBinder) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

func (m *MockBinder) add(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}
