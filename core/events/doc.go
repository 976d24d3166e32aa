// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - RunEvent: a dispatch run finished
//   - SetpointEvent: a unit setpoint was published or failed
package events
