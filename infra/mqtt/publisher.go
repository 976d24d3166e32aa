package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/ecodispatch/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records setpoints in memory. It is used in tests.
type MockPublisher struct {
	Setpoints map[string]coremqtt.Setpoint
	FailUnits map[string]bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Setpoints: make(map[string]coremqtt.Setpoint),
		FailUnits: make(map[string]bool),
	}
}

// PublishSetpoint records the setpoint or fails for units listed in FailUnits.
func (m *MockPublisher) PublishSetpoint(_ context.Context, sp coremqtt.Setpoint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUnits[sp.Unit] {
		return "", fmt.Errorf("%w: %s", coremqtt.ErrPublishFailed, sp.Unit)
	}
	if sp.CommandID == "" {
		sp.CommandID = fmt.Sprintf("cmd-%s", Slug(sp.Unit))
	}
	m.Setpoints[sp.Unit] = sp
	return sp.CommandID, nil
}

// Get returns the recorded setpoint of a unit.
func (m *MockPublisher) Get(unit string) (coremqtt.Setpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.Setpoints[unit]
	return sp, ok
}

// Len returns how many units received a setpoint.
func (m *MockPublisher) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Setpoints)
}
