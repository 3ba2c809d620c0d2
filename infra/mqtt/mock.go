package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/courseadvisor/core/notify"
)

// MockNotifier records notifications in memory. Students listed in FailIDs
// make Notify fail.
type MockNotifier struct {
	Messages map[string][]Message
	FailIDs  map[string]bool
	mu       sync.Mutex
}

// NewMockNotifier creates an empty MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		Messages: make(map[string][]Message),
		FailIDs:  make(map[string]bool),
	}
}

// Notify records the message or returns an error if configured to fail.
func (m *MockNotifier) Notify(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[n.StudentID] {
		return fmt.Errorf("publish failed")
	}
	m.Messages[n.StudentID] = append(m.Messages[n.StudentID], NewMessage(n))
	return nil
}

// Sent returns the messages recorded for studentID.
func (m *MockNotifier) Sent(studentID string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.Messages[studentID]...)
}
