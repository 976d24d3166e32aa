package metrics

import (
	"time"

	"github.com/kilianp07/ecodispatch/core/model"
)

// DispatchEvent describes one completed dispatch run.
type DispatchEvent struct {
	RunID    string
	Request  model.Request
	Result   model.DispatchResult
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records dispatch runs for observability purposes.
type MetricsSink interface {
	RecordDispatch(ev DispatchEvent) error
}

// AvailabilityEvent is the resolved availability snapshot of a run.
type AvailabilityEvent struct {
	Month model.Month
	Hour  model.Hour
	Units []model.ResolvedUnit
	Time  time.Time
}

// AvailabilityRecorder is implemented by sinks able to record availability
// snapshots.
type AvailabilityRecorder interface {
	RecordAvailability(ev AvailabilityEvent) error
}

// PublishEvent reports the outcome of publishing one unit setpoint.
type PublishEvent struct {
	RunID string
	Unit  string
	OK    bool
	Time  time.Time
}

// PublishRecorder records setpoint publishing outcomes.
type PublishRecorder interface {
	RecordPublish(ev PublishEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDispatch(DispatchEvent) error         { return nil }
func (NopSink) RecordAvailability(AvailabilityEvent) error { return nil }
func (NopSink) RecordPublish(PublishEvent) error           { return nil }

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDispatch forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordDispatch(ev DispatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAvailability forwards availability snapshots when supported by the sink.
func (m *MultiSink) RecordAvailability(ev AvailabilityEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(AvailabilityRecorder); ok {
			if err := rec.RecordAvailability(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPublish forwards publish outcomes when supported by the sink.
func (m *MultiSink) RecordPublish(ev PublishEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PublishRecorder); ok {
			if err := rec.RecordPublish(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
