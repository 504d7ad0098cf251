// Package sysclock provides the production ports.Clock.
package sysclock

import (
	"time"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// Local returns the wall-clock time in the local time zone.
type Local struct{}

// New creates a local-time clock.
func New() Local {
	return Local{}
}

func (Local) Now() time.Time {
	return time.Now()
}

var _ ports.Clock = Local{}
