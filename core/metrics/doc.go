// Package metrics defines the sinks recording dispatch runs for
// observability. Sinks such as the Prometheus and InfluxDB implementations in
// infra/metrics are registered by type name and built from configuration
// with NewMetricsSink, which returns a MultiSink when several are configured.
package metrics
