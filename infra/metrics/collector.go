package metrics

import (
	"context"

	"github.com/kilianp07/ecodispatch/core/events"
	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// setpoint events. It stops when the context is canceled or the bus closes.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.PublishRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, isSetpoint := ev.(events.SetpointEvent); isSetpoint {
					_ = rec.RecordPublish(coremetrics.PublishEvent{
						RunID: e.RunID,
						Unit:  e.Unit,
						OK:    e.Err == nil,
						Time:  e.Time,
					})
				}
			}
		}
	}()
}
