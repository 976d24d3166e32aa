package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/ecodispatch/core/factory"
	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL     string        `json:"url"`
			Token   string        `json:"token"`
			Org     string        `json:"org"`
			Bucket  string        `json:"bucket"`
			Timeout time.Duration `json:"timeout"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, errors.New("influx sink: url required")
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket, WithInfluxTimeout(c.Timeout)), nil
	})
}
