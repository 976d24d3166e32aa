package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/infra/logger"
)

// InfluxSink writes dispatch runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// DefaultInfluxTimeout bounds the health check and every write.
const DefaultInfluxTimeout = 5 * time.Second

// InfluxOption customises an InfluxSink.
type InfluxOption func(*InfluxSink)

// WithInfluxTimeout sets the HTTP and write timeout. Non-positive values
// keep the default.
func WithInfluxTimeout(d time.Duration) InfluxOption {
	return func(s *InfluxSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
// A trailing /api/v2/write is accepted and stripped.
func NewInfluxSink(url, token, org, bucket string, opts ...InfluxOption) *InfluxSink {
	s := &InfluxSink{timeout: DefaultInfluxTimeout, log: logger.New("influx-sink")}
	for _, opt := range opts {
		opt(s)
	}
	base := strings.TrimSuffix(url, "/api/v2/write")
	s.client = influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: s.timeout}))
	s.writeAPI = s.client.WriteAPIBlocking(org, bucket)
	return s
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string, opts ...InfluxOption) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket, opts...)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDispatch writes one summary point and one point per dispatched unit.
func (s *InfluxSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*s.timeout)
	defer cancel()
	r := ev.Result
	req := ev.Request
	summary := write.NewPointWithMeasurement("dispatch_summary").
		AddTag("run_id", ev.RunID).
		AddTag("month", string(req.Month)).
		AddTag("season", string(req.Season())).
		AddTag("hour", strconv.Itoa(int(req.Hour))).
		AddField("demand_mw", round3(r.DemandMW)).
		AddField("dispatched_mw", round3(r.DispatchMW)).
		AddField("unmet_mw", round3(r.UnmetMW)).
		AddField("total_cost", round3(r.TotalCost)).
		AddField("capacity_mw", round3(r.CapacityMW)).
		SetTime(ev.Time)
	points := []*write.Point{summary}
	for _, a := range r.Dispatched() {
		points = append(points, write.NewPointWithMeasurement("dispatch_unit").
			AddTag("run_id", ev.RunID).
			AddTag("unit", a.Unit).
			AddTag("category", string(a.Category)).
			AddField("dispatched_mw", round3(a.DispatchedMW)).
			AddField("available_mw", round3(a.AvailableMW)).
			AddField("hourly_cost", round3(a.HourlyCost)).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordAvailability writes the available capacity of every unit.
func (s *InfluxSink) RecordAvailability(ev coremetrics.AvailabilityEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Units))
	for _, u := range ev.Units {
		points = append(points, write.NewPointWithMeasurement("unit_availability").
			AddTag("unit", u.Name).
			AddTag("category", string(u.Category)).
			AddTag("month", string(ev.Month)).
			AddTag("hour", strconv.Itoa(int(ev.Hour))).
			AddField("available_mw", round3(u.AvailableMW)).
			AddField("full_capacity_mw", round3(u.FullCapacityMW)).
			SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
