// Package otel bridges goAuthClient metrics into OpenTelemetry instruments.
//
// [NewOTelExporter] registers observable counters and gauges on a caller-provided
// [metric.Meter]; on every collection the exporter snapshots the pipeline's counters
// and histogram buckets. Unregister via [OTelExporter.Close].
//
// # What this package must NOT do
//
//   - Own a MeterProvider — callers configure the OTel SDK.
//   - Mutate pipeline state.
package otel
