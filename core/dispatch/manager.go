package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/ecodispatch/core/availability"
	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/events"
	"github.com/kilianp07/ecodispatch/core/logger"
	"github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/core/model"
	coremon "github.com/kilianp07/ecodispatch/core/monitoring"
	"github.com/kilianp07/ecodispatch/core/mqtt"
	"github.com/kilianp07/ecodispatch/internal/eventbus"
)

// PriceSource looks up the interconnect import price in LKR/kWh.
type PriceSource interface {
	Price(ctx context.Context, month model.Month, hour model.Hour) (float64, error)
}

// Manager runs dispatches end to end: availability resolution, allocation
// and the side-effects of a run. Side-effect failures are logged and
// reported to the monitor but never fail a computed dispatch.
type Manager struct {
	resolver  *availability.Resolver
	allocator Dispatcher
	logger    logger.Logger

	mu        sync.RWMutex
	store     logging.LogStore
	metrics   metrics.MetricsSink
	publisher mqtt.Publisher
	bus       eventbus.EventBus
	prices    PriceSource
	now       func() time.Time
	newID     func() string
}

// NewManager creates a manager. Optional collaborators default to no-ops
// and can be replaced with the Set methods.
func NewManager(resolver *availability.Resolver, allocator Dispatcher, log logger.Logger) (*Manager, error) {
	if resolver == nil || allocator == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewManager")
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Manager{
		resolver:  resolver,
		allocator: allocator,
		logger:    log,
		store:     logging.NopStore{},
		metrics:   metrics.NopSink{},
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// SetLogStore configures the store used to persist dispatch records.
func (m *Manager) SetLogStore(store logging.LogStore) {
	if store == nil {
		store = logging.NopStore{}
	}
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// SetMetricsSink configures where run metrics are recorded.
func (m *Manager) SetMetricsSink(sink metrics.MetricsSink) {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	m.mu.Lock()
	m.metrics = sink
	m.mu.Unlock()
}

// SetPublisher enables setpoint publishing after each run. Nil disables it.
func (m *Manager) SetPublisher(p mqtt.Publisher) {
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

// SetEventBus configures the bus notified of runs and setpoints.
func (m *Manager) SetEventBus(bus eventbus.EventBus) {
	m.mu.Lock()
	m.bus = bus
	m.mu.Unlock()
}

// SetPriceSource configures where the Indian Link price is looked up for
// requests that carry none. Nil disables the lookup.
func (m *Manager) SetPriceSource(src PriceSource) {
	m.mu.Lock()
	m.prices = src
	m.mu.Unlock()
}

// Resolver returns the availability resolver used by the manager.
func (m *Manager) Resolver() *availability.Resolver { return m.resolver }

// Store returns the configured record store.
func (m *Manager) Store() logging.LogStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Resolve returns the availability snapshot used for req, with the
// interconnect priced at req.IndianLinkPrice.
func (m *Manager) Resolve(req model.Request) []model.ResolvedUnit {
	units := m.resolver.Fleet().WithInterconnectPrice(req.IndianLinkPrice).Enabled()
	return m.resolver.ResolveUnits(units, req.Month, req.Hour)
}

// Run executes one dispatch for a validated request and returns its record.
// Only a canceled context or an invalid request produce an error. A request
// without an Indian Link price is invalid while the interconnect is enabled
// and no price source fills it.
func (m *Manager) Run(ctx context.Context, req model.Request) (logging.LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return logging.LogRecord{}, err
	}
	if err := validate(req); err != nil {
		return logging.LogRecord{}, err
	}

	m.mu.RLock()
	store, sink, pub, bus, prices := m.store, m.metrics, m.publisher, m.bus, m.prices
	m.mu.RUnlock()

	if req.IndianLinkPrice == 0 && prices != nil {
		req = m.applyPrice(ctx, prices, req)
	}
	if req.IndianLinkPrice == 0 && m.interconnectEnabled() {
		return logging.LogRecord{}, fmt.Errorf("%w: interconnect is enabled but no price is known for %s %s",
			model.ErrInvalidPrice, req.Month, req.Hour.Label())
	}

	start := time.Now()
	units := m.Resolve(req)
	res := m.allocator.Allocate(units, req.DemandMW)
	elapsed := time.Since(start)

	rec := logging.LogRecord{
		ID:        m.newID(),
		Timestamp: m.now().UTC(),
		Request:   req,
		Season:    req.Season(),
		Result:    res,
	}
	m.logger.Infof("dispatch %s: %s %s demand=%.2fMW dispatched=%.2fMW cost=%.2f LKR/h unmet=%.2fMW",
		rec.ID, req.Month, req.Hour.Label(), req.DemandMW, res.DispatchMW, res.TotalCost, res.UnmetMW)
	if res.Shortfall() {
		m.logger.Warnf("dispatch %s: demand exceeds available capacity by %.2f MW", rec.ID, res.UnmetMW)
	}
	for _, a := range res.Dispatched() {
		m.logger.Debugw("unit dispatched", map[string]any{
			"run_id": rec.ID, "unit": a.Unit, "mw": a.DispatchedMW, "cost": a.HourlyCost,
		})
	}

	if err := store.Append(ctx, rec); err != nil {
		m.report(err, "records", rec.ID)
	}
	m.recordMetrics(sink, rec, units, elapsed)
	if pub != nil {
		m.publishSetpoints(ctx, pub, bus, rec)
	}
	if bus != nil {
		bus.Publish(events.RunEvent{RunID: rec.ID, Request: req, Result: res, Duration: elapsed, Time: rec.Timestamp})
	}
	return rec, nil
}

// Close releases the record store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

func (m *Manager) recordMetrics(sink metrics.MetricsSink, rec logging.LogRecord, units []model.ResolvedUnit, elapsed time.Duration) {
	if err := sink.RecordDispatch(metrics.DispatchEvent{
		RunID:    rec.ID,
		Request:  rec.Request,
		Result:   rec.Result,
		Duration: elapsed,
		Time:     rec.Timestamp,
	}); err != nil {
		m.report(err, "metrics", rec.ID)
	}
	if ar, ok := sink.(metrics.AvailabilityRecorder); ok {
		if err := ar.RecordAvailability(metrics.AvailabilityEvent{
			Month: rec.Request.Month,
			Hour:  rec.Request.Hour,
			Units: units,
			Time:  rec.Timestamp,
		}); err != nil {
			m.report(err, "metrics", rec.ID)
		}
	}
}

// publishSetpoints sends one setpoint per dispatched unit concurrently.
func (m *Manager) publishSetpoints(ctx context.Context, pub mqtt.Publisher, bus eventbus.EventBus, rec logging.LogRecord) {
	var wg sync.WaitGroup
	for _, a := range rec.Result.Dispatched() {
		wg.Add(1)
		go func(a model.Allocation) {
			defer wg.Done()
			sp := mqtt.Setpoint{
				RunID:     rec.ID,
				Unit:      a.Unit,
				MW:        a.DispatchedMW,
				Month:     string(rec.Request.Month),
				Hour:      int(rec.Request.Hour),
				Timestamp: rec.Timestamp.UnixMilli(),
			}
			_, err := pub.PublishSetpoint(ctx, sp)
			if err != nil {
				m.logger.Errorf("setpoint for %s failed: %v", a.Unit, err)
			}
			if bus != nil {
				bus.Publish(events.SetpointEvent{RunID: rec.ID, Unit: a.Unit, MW: a.DispatchedMW, Err: err, Time: m.now()})
			}
		}(a)
	}
	wg.Wait()
}

// applyPrice fills the interconnect price from src. A failed lookup is
// reported and the run continues unpriced.
func (m *Manager) applyPrice(ctx context.Context, src PriceSource, req model.Request) model.Request {
	p, err := src.Price(ctx, req.Month, req.Hour)
	if err == nil {
		err = model.ValidatePrice(p)
	}
	if err != nil {
		m.report(err, "prices", "")
		return req
	}
	m.logger.Debugf("indian link price for %s %s: %.2f LKR/kWh", req.Month, req.Hour.Label(), p)
	req.IndianLinkPrice = p
	return req
}

func (m *Manager) report(err error, component, runID string) {
	m.logger.Errorf("dispatch %s: %s: %v", runID, component, err)
	coremon.CaptureException(err, map[string]string{"component": component, "run_id": runID})
}

func validate(req model.Request) error {
	if err := model.ValidateDemand(req.DemandMW); err != nil {
		return err
	}
	if !req.Month.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidMonth, req.Month)
	}
	if _, err := model.ValidateHour(int(req.Hour)); err != nil {
		return err
	}
	return model.ValidatePrice(req.IndianLinkPrice)
}

func (m *Manager) interconnectEnabled() bool {
	for _, u := range m.resolver.Fleet().Enabled() {
		if u.Category == model.CategoryInterconnect {
			return true
		}
	}
	return false
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
