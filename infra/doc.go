// Package infra holds the adapters behind the core interfaces: the MQTT
// setpoint publisher, metrics sinks, the zerolog logger and Sentry.
package infra
