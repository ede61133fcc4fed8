// Package telemetry provides structured logging, Prometheus metrics, and
// OpenTelemetry tracing for the operation codecs and the status cache.
// Logging is built on zerolog with per-component child loggers and context
// propagation. Metrics and tracing are optional and become no-ops when
// disabled in configuration.
package telemetry
