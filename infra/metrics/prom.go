package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
)

// PromSink records dispatch runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	unitMW    *prometheus.GaugeVec
	available *prometheus.GaugeVec
	cost      prometheus.Gauge
	unmet     prometheus.Gauge
	duration  prometheus.Histogram
	published *prometheus.CounterVec
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_runs_total",
		Help: "Total number of dispatch runs",
	}, []string{"month", "season", "shortfall"})
	unitMW := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_unit_mw",
		Help: "MW dispatched per unit in the last run",
	}, []string{"unit", "category"})
	available := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_unit_available_mw",
		Help: "Available MW per unit in the last resolved snapshot",
	}, []string{"unit", "category"})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_total_cost_lkr",
		Help: "Hourly cost of the last dispatch run in LKR",
	})
	unmet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_unmet_mw",
		Help: "Demand left unmet by the last dispatch run",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_run_duration_seconds",
		Help:    "Time spent resolving and allocating a dispatch run",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_setpoints_published_total",
		Help: "Setpoints published to units",
	}, []string{"unit", "ok"})

	cs := []prometheus.Collector{runs, unitMW, available, cost, unmet, duration, published}
	for i, c := range cs {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			cs[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		runs:      cs[0].(*prometheus.CounterVec),
		unitMW:    cs[1].(*prometheus.GaugeVec),
		available: cs[2].(*prometheus.GaugeVec),
		cost:      cs[3].(prometheus.Gauge),
		unmet:     cs[4].(prometheus.Gauge),
		duration:  cs[5].(prometheus.Histogram),
		published: cs[6].(*prometheus.CounterVec),
	}, nil
}

// RecordDispatch updates run counters and per-unit gauges.
func (s *PromSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	r := ev.Result
	s.runs.WithLabelValues(string(ev.Request.Month), string(ev.Request.Season()), strconv.FormatBool(r.Shortfall())).Inc()
	for _, a := range r.Allocations {
		s.unitMW.WithLabelValues(a.Unit, string(a.Category)).Set(a.DispatchedMW)
	}
	s.cost.Set(r.TotalCost)
	s.unmet.Set(r.UnmetMW)
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordAvailability sets the availability gauge of every unit.
func (s *PromSink) RecordAvailability(ev coremetrics.AvailabilityEvent) error {
	for _, u := range ev.Units {
		s.available.WithLabelValues(u.Name, string(u.Category)).Set(u.AvailableMW)
	}
	return nil
}

// RecordPublish counts setpoint publishing outcomes.
func (s *PromSink) RecordPublish(ev coremetrics.PublishEvent) error {
	s.published.WithLabelValues(ev.Unit, strconv.FormatBool(ev.OK)).Inc()
	return nil
}
