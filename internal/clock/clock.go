// Package clock supplies "now" to status classification so overdue
// detection stays deterministic under test.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock yields the current instant in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns the wall clock.
func NewSystem() Clock { return systemClock{} }

// Module wires the system clock for the application.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
