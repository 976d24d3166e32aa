package events

import "time"

// SetpointEvent is published for each setpoint sent to a unit.
type SetpointEvent struct {
	RunID string
	Unit  string
	MW    float64
	Err   error
	Time  time.Time
}
