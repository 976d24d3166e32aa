package events

import (
	"time"

	"github.com/kilianp07/ecodispatch/core/model"
)

// RunEvent is published when the manager completes a dispatch run.
type RunEvent struct {
	RunID    string
	Request  model.Request
	Result   model.DispatchResult
	Duration time.Duration
	Time     time.Time
}
