package internaldefs

import (
	goAuthClient "github.com/MrEthical07/goAuthClient"
)

// CounterDef defines a public type used by goAuthClient APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goAuthClient.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goAuthClient APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goAuthClient.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the client pipeline.
var CounterDefs = []CounterDef{
	{ID: goAuthClient.MetricRequestSuccess, Name: "goauthclient_request_success_total", Help: "Requests completed without an unauthorized outcome."},
	{ID: goAuthClient.MetricRequestUnauthorized, Name: "goauthclient_request_unauthorized_total", Help: "First-attempt unauthorized responses that engaged renewal."},
	{ID: goAuthClient.MetricRequestFatalUnauthorized, Name: "goauthclient_request_fatal_unauthorized_total", Help: "Unauthorized responses on already-replayed requests."},
	{ID: goAuthClient.MetricTransportFailure, Name: "goauthclient_transport_failure_total", Help: "Network-level transport failures."},
	{ID: goAuthClient.MetricStorageError, Name: "goauthclient_storage_error_total", Help: "Credential store read or write failures."},
	{ID: goAuthClient.MetricRenewalInitiated, Name: "goauthclient_renewal_initiated_total", Help: "Renewal episodes started (one backend call each)."},
	{ID: goAuthClient.MetricRenewalJoined, Name: "goauthclient_renewal_joined_total", Help: "Callers queued onto an in-flight renewal."},
	{ID: goAuthClient.MetricRenewalSuccess, Name: "goauthclient_renewal_success_total", Help: "Successful renewal episodes."},
	{ID: goAuthClient.MetricRenewalFailure, Name: "goauthclient_renewal_failure_total", Help: "Failed renewal episodes."},
	{ID: goAuthClient.MetricRenewalLead, Name: "goauthclient_renewal_lead_total", Help: "Proactive renewals triggered by the expiry lead window."},
	{ID: goAuthClient.MetricRetryDispatched, Name: "goauthclient_retry_dispatched_total", Help: "Requests replayed with a renewed credential."},
	{ID: goAuthClient.MetricCredentialsCleared, Name: "goauthclient_credentials_cleared_total", Help: "Credential store clear operations."},
}

// HistogramDefs is an exported constant or variable used by the client pipeline.
var HistogramDefs = []HistogramDef{
	{ID: goAuthClient.MetricSendLatency, Name: "goauthclient_send_latency_seconds", Help: "Send latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the client pipeline.
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

// HistogramBoundSuffix is an exported constant or variable used by the client pipeline.
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
