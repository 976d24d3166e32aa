package metrics

import (
	"errors"
	"testing"
)

type recordingSink struct {
	dispatches    int
	availability  int
	publishes     int
	dispatchError error
}

func (r *recordingSink) RecordDispatch(DispatchEvent) error {
	r.dispatches++
	return r.dispatchError
}

func (r *recordingSink) RecordAvailability(AvailabilityEvent) error {
	r.availability++
	return nil
}

func (r *recordingSink) RecordPublish(PublishEvent) error {
	r.publishes++
	return nil
}

type dispatchOnly struct{ n int }

func (d *dispatchOnly) RecordDispatch(DispatchEvent) error { d.n++; return nil }

func TestMultiSink_Forwarding(t *testing.T) {
	a := &recordingSink{}
	b := &dispatchOnly{}
	m := NewMultiSink(a, b)

	if err := m.RecordDispatch(DispatchEvent{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := m.RecordAvailability(AvailabilityEvent{}); err != nil {
		t.Fatalf("availability: %v", err)
	}
	if err := m.RecordPublish(PublishEvent{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if a.dispatches != 1 || b.n != 1 {
		t.Fatalf("dispatch not forwarded: %d %d", a.dispatches, b.n)
	}
	if a.availability != 1 || a.publishes != 1 {
		t.Fatalf("optional recorders not forwarded")
	}
}

func TestMultiSink_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{dispatchError: boom}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordDispatch(DispatchEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if b.dispatches != 0 {
		t.Fatalf("second sink should not be called")
	}
}
