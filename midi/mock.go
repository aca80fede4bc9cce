package midi

import "sync"

// MockEvent is one recorded sink transition.
type MockEvent struct {
	On   bool
	Note uint8
}

// Mock implements the scheduler sink for tests, recording transitions in
// emission order.
type Mock struct {
	mu     sync.Mutex
	events []MockEvent
	closes int
}

// NewMock creates an empty recorder.
func NewMock() *Mock {
	return &Mock{}
}

// NoteOn records an activation.
func (m *Mock) NoteOn(note uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, MockEvent{On: true, Note: note})
}

// NoteOff records a release.
func (m *Mock) NoteOff(note uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, MockEvent{On: false, Note: note})
}

// Close counts how many times the connection was released.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Events returns a copy of everything recorded so far.
func (m *Mock) Events() []MockEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockEvent(nil), m.events...)
}

// Closes reports how many times Close was called.
func (m *Mock) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
