package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apidispatch "github.com/kilianp07/ecodispatch/api/dispatch"
	"github.com/kilianp07/ecodispatch/config"
	"github.com/kilianp07/ecodispatch/connectors"
	"github.com/kilianp07/ecodispatch/connectors/factory"
	"github.com/kilianp07/ecodispatch/core/availability"
	"github.com/kilianp07/ecodispatch/core/dispatch"
	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/events"
	"github.com/kilianp07/ecodispatch/core/fleet"
	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/infra/logger"
	"github.com/kilianp07/ecodispatch/infra/metrics"
	"github.com/kilianp07/ecodispatch/infra/mqtt"
	"github.com/kilianp07/ecodispatch/internal/eventbus"
)

// Service wires the dispatch manager to its stores, sinks and transports.
type Service struct {
	Manager *dispatch.Manager
	Store   logging.LogStore
	// Prices is the configured interconnect price source, nil if none.
	Prices connectors.PriceSource

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	publisher *mqtt.PahoClient
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	f, table, err := fleet.Load(cfg.Fleet)
	if err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	opts := []availability.Option{availability.WithStrictHydroTable(cfg.Fleet.StrictHydroTable)}
	if cfg.Dispatch.MiniHydroWetFactor > 0 {
		opts = append(opts, availability.WithMiniHydroWetFactor(cfg.Dispatch.MiniHydroWetFactor))
	}
	resolver := availability.NewResolver(f, table, opts...)

	manager, err := dispatch.NewManager(resolver, dispatch.NewAllocator(cfg.Dispatch.BlockGroup), logger.New("dispatch"))
	if err != nil {
		return nil, fmt.Errorf("dispatch manager: %w", err)
	}

	store, err := logging.NewStore(cfg.Records)
	if err != nil {
		return nil, fmt.Errorf("records store: %w", err)
	}
	manager.SetLogStore(store)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	manager.SetMetricsSink(sink)

	prices, err := factory.NewPriceSource(cfg.Pricing)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("price source: %w", err)
	}
	if prices != nil {
		manager.SetPriceSource(prices)
	}

	bus := eventbus.New()
	manager.SetEventBus(bus)

	svc := &Service{Manager: manager, Store: store, Prices: prices, cfg: cfg, bus: bus, sink: sink, log: logg}
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.publisher = client
		manager.SetPublisher(client)
	}
	logg.Infof("fleet loaded: %d units, %d enabled", f.Len(), len(f.Enabled()))
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return apidispatch.NewMux(s.Manager, s.Store, s.cfg.API.Token)
}

// Run serves the HTTP API and the optional Prometheus endpoint until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	go s.logEvents(ctx, s.bus.Subscribe())

	if s.cfg.Metrics.PrometheusEnabled() && s.cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("API listening on %s", s.cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Service) logEvents(ctx context.Context, sub <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.RunEvent:
				s.log.Debugw("dispatch run", map[string]any{
					"run_id": e.RunID, "month": e.Request.Month, "hour": e.Request.Hour,
					"demand_mw": e.Request.DemandMW, "unmet_mw": e.Result.UnmetMW, "duration": e.Duration.String(),
				})
			case events.SetpointEvent:
				if e.Err != nil {
					s.log.Warnf("setpoint %s for run %s failed: %v", e.Unit, e.RunID, e.Err)
				}
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	s.bus.Close()
	return s.Manager.Close()
}
