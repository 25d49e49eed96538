// Package prometheus provides Prometheus collectors for gohris metrics.
//
// [NewPrometheusExporter] accepts a [gohris.Manager] and exposes an [http.Handler]
// that renders all gohris counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gohris_*_total; the single histogram is
// gohris_login_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate manager state.
package prometheus
