package mqtt

import "context"

// Setpoint is the output target sent to a single generating unit after a
// dispatch run.
type Setpoint struct {
	CommandID string  `json:"command_id"`
	RunID     string  `json:"run_id"`
	Unit      string  `json:"unit"`
	MW        float64 `json:"mw"`
	Month     string  `json:"month"`
	Hour      int     `json:"hour"`
	Timestamp int64   `json:"timestamp"`
}

// Publisher sends dispatch setpoints to units.
type Publisher interface {
	// PublishSetpoint sends the setpoint and returns the command identifier
	// attached to it.
	PublishSetpoint(ctx context.Context, sp Setpoint) (commandID string, err error)
}

// NopPublisher discards setpoints.
type NopPublisher struct{}

func (NopPublisher) PublishSetpoint(_ context.Context, sp Setpoint) (string, error) {
	return sp.CommandID, nil
}
