package scenarios

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/ecodispatch/core/availability"
	"github.com/kilianp07/ecodispatch/core/dispatch"
	"github.com/kilianp07/ecodispatch/core/events"
	"github.com/kilianp07/ecodispatch/core/fleet"
	"github.com/kilianp07/ecodispatch/core/model"
	"github.com/kilianp07/ecodispatch/infra/logger"
	"github.com/kilianp07/ecodispatch/infra/metrics"
	"github.com/kilianp07/ecodispatch/infra/mqtt"
	"github.com/kilianp07/ecodispatch/internal/eventbus"
)

const tolerance = 1e-6

// RunScenario executes sc and reports mismatches on t.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	req, err := sc.Request.ToModel()
	if sc.Expected.Error != "" {
		if err == nil || !errors.Is(err, expectedError(sc.Expected.Error)) {
			t.Fatalf("scenario %s expected %s error, got %v", sc.Name, sc.Expected.Error, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: request: %v", sc.Name, err)
	}

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	pub := mqtt.NewMockPublisher()
	for _, u := range sc.FailUnits {
		pub.FailUnits[u] = true
	}
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	f, table := fleet.Default()
	mgr, err := dispatch.NewManager(availability.NewResolver(f, table), dispatch.NewAllocator(dispatch.DefaultBlockGroup()), logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	mgr.SetMetricsSink(sink)
	mgr.SetPublisher(pub)
	mgr.SetEventBus(bus)

	rec, err := mgr.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("scenario %s: run: %v", sc.Name, err)
	}
	res := rec.Result

	for unit, got := range res.PerUnit {
		want := sc.Expected.PerUnit[unit]
		if math.Abs(got-want) > tolerance {
			t.Errorf("scenario %s: %s dispatched %.4f MW, want %.4f", sc.Name, unit, got, want)
		}
	}
	for unit := range sc.Expected.PerUnit {
		if _, ok := res.PerUnit[unit]; !ok {
			t.Errorf("scenario %s: unknown unit %s", sc.Name, unit)
		}
	}
	if math.Abs(res.TotalCost-sc.Expected.TotalCost) > tolerance {
		t.Errorf("scenario %s: total cost %.2f, want %.2f", sc.Name, res.TotalCost, sc.Expected.TotalCost)
	}
	if math.Abs(res.UnmetMW-sc.Expected.UnmetMW) > tolerance {
		t.Errorf("scenario %s: unmet %.4f MW, want %.4f", sc.Name, res.UnmetMW, sc.Expected.UnmetMW)
	}
	if res.Shortfall() != sc.Expected.Shortfall {
		t.Errorf("scenario %s: shortfall %v, want %v", sc.Name, res.Shortfall(), sc.Expected.Shortfall)
	}
	if pub.Len() != sc.Expected.Published {
		t.Errorf("scenario %s: %d setpoints published, want %d", sc.Name, pub.Len(), sc.Expected.Published)
	}
	if got := gaugeValue(t, reg, "dispatch_total_cost_lkr"); math.Abs(got-sc.Expected.TotalCost) > tolerance {
		t.Errorf("scenario %s: cost gauge %.2f, want %.2f", sc.Name, got, sc.Expected.TotalCost)
	}
	waitRunEvent(t, sub, rec.ID)
}

func expectedError(name string) error {
	switch name {
	case "invalid_hour":
		return model.ErrInvalidHour
	case "invalid_month":
		return model.ErrInvalidMonth
	case "invalid_demand":
		return model.ErrInvalidDemand
	default:
		return errors.New(name)
	}
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func waitRunEvent(t *testing.T, sub <-chan eventbus.Event, runID string) {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case ev := <-sub:
			if e, ok := ev.(events.RunEvent); ok && e.RunID == runID {
				return
			}
		case <-timeout:
			t.Fatalf("no run event for %s", runID)
		}
	}
}
