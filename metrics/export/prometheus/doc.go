// Package prometheus provides Prometheus collectors for dashkit metrics.
//
// [NewPrometheusExporter] accepts a [dashkit.Client] and exposes an [http.Handler]
// that renders all dashkit counters and histograms in Prometheus text exposition format.
// Counter names are prefixed dashkit_*_total; the single histogram is
// dashkit_request_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate client state.
package prometheus
