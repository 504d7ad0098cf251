package mocks

import (
	"time"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// MockClock implements ports.Clock with a settable time.
type MockClock struct {
	Current time.Time
}

// NewMockClock creates a clock frozen at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{Current: t}
}

func (c *MockClock) Now() time.Time { return c.Current }

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

var _ ports.Clock = (*MockClock)(nil)
