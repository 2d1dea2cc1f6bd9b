// Package goAuthClient provides an authenticated HTTP request pipeline with bearer-token
// attachment, single-flight credential renewal, and queue-and-replay retry semantics for
// mobile and service clients talking to a token-issuing backend.
//
// The package is designed for concurrent client workloads: Pipeline methods are safe to
// call from multiple goroutines after initialization through [Builder.Build]. Any number
// of requests may fail with 401 simultaneously; exactly one renewal call reaches the
// backend per renewal episode, and every blocked request is replayed once with the
// renewed credential.
//
// # Architecture boundaries
//
// goAuthClient is the public surface. It exposes [Pipeline], [Builder], [Config], and
// value types (MetricsSnapshot, AuditEvent, etc.). Credential persistence lives in the
// credential package and wire transfer in the transport package; the renewal state
// machine is internal to this package and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, the waiter queue, or renewal state in its public API.
//   - Interpret endpoint-specific request or response payloads.
//   - Retry a request more than once per logical attempt, under any failure mix.
//
// # Failure contract
//
// Transport-level failures and non-401 responses pass through untouched and never
// engage the renewal machinery. A 401 on a fresh attempt triggers exactly one renewal
// cycle and one replay; a 401 on the replayed request is fatal for that request and is
// surfaced together with [ErrUnauthorized]. A failed renewal clears the credential
// store and rejects the initiator and every queued waiter with the same error.
package goAuthClient
