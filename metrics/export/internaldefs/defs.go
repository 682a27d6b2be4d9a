package internaldefs

import (
	"dashkit"
)

// CounterDef defines a public type used by dashkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   dashkit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by dashkit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   dashkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the dashboard client.
var CounterDefs = []CounterDef{
	{ID: dashkit.MetricRequestSuccess, Name: "dashkit_request_success_total", Help: "Requests completing with a 2xx/3xx status."},
	{ID: dashkit.MetricRequestFailure, Name: "dashkit_request_failure_total", Help: "Requests failing at the transport or with a non-2xx/3xx status."},
	{ID: dashkit.MetricTokenAttached, Name: "dashkit_token_attached_total", Help: "Unsafe same-origin requests that carried a CSRF token."},
	{ID: dashkit.MetricTokenMissing, Name: "dashkit_token_missing_total", Help: "Unsafe same-origin requests sent with an empty CSRF token."},
	{ID: dashkit.MetricUnauthorizedRedirect, Name: "dashkit_unauthorized_redirect_total", Help: "401 responses that triggered a login redirect."},
	{ID: dashkit.MetricForbiddenAlert, Name: "dashkit_forbidden_alert_total", Help: "403 responses that triggered a blocking alert."},
	{ID: dashkit.MetricServerErrorAlert, Name: "dashkit_server_error_alert_total", Help: "5xx responses that triggered a blocking alert."},
	{ID: dashkit.MetricExportTriggered, Name: "dashkit_export_triggered_total", Help: "CSV downloads handed to the downloader."},
	{ID: dashkit.MetricCSRFIssued, Name: "dashkit_csrf_issued_total", Help: "CSRF tokens issued by the server middleware."},
	{ID: dashkit.MetricCSRFVerified, Name: "dashkit_csrf_verified_total", Help: "CSRF verifications that passed."},
	{ID: dashkit.MetricCSRFRejected, Name: "dashkit_csrf_rejected_total", Help: "CSRF verifications that rejected the request."},
}

// HistogramDefs is an exported constant or variable used by the dashboard client.
var HistogramDefs = []HistogramDef{
	{ID: dashkit.MetricRequestLatency, Name: "dashkit_request_latency_seconds", Help: "Request round-trip latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the dashboard client.
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

// HistogramBoundSuffix is an exported constant or variable used by the dashboard client.
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
