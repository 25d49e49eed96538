package internaldefs

import (
	"github.com/Bmat321/gohris"
)

// CounterDef defines a public type used by gohris APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   gohris.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by gohris APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   gohris.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: gohris.MetricLoginSuccess, Name: "gohris_login_success_total", Help: "Successful login completions."},
	{ID: gohris.MetricLoginFailure, Name: "gohris_login_failure_total", Help: "Failed login attempts."},
	{ID: gohris.MetricTwoFactorIssued, Name: "gohris_two_factor_issued_total", Help: "Issued second-factor challenges."},
	{ID: gohris.MetricTwoFactorSuccess, Name: "gohris_two_factor_success_total", Help: "Successful second-factor verifications."},
	{ID: gohris.MetricTwoFactorFailure, Name: "gohris_two_factor_failure_total", Help: "Failed second-factor verifications."},
	{ID: gohris.MetricLogout, Name: "gohris_logout_total", Help: "Explicit logout operations."},
	{ID: gohris.MetricForcedLogout, Name: "gohris_forced_logout_total", Help: "Sessions cleared by the 401 policy or token rejection."},
	{ID: gohris.MetricSessionRestored, Name: "gohris_session_restored_total", Help: "Sessions rebuilt from persisted state."},
	{ID: gohris.MetricRestoreRejected, Name: "gohris_restore_rejected_total", Help: "Restore attempts rejected as expired or invalid."},
	{ID: gohris.MetricTokenRefreshed, Name: "gohris_token_refreshed_total", Help: "Access tokens rotated via refresh."},
	{ID: gohris.MetricTokenRejected, Name: "gohris_token_rejected_total", Help: "Tokens rejected by backend validation."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: gohris.MetricLoginLatency, Name: "gohris_login_latency_seconds", Help: "Login latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
