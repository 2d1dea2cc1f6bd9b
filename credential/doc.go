// Package credential provides durable, scoped storage for the access/refresh
// credential pair used by the request pipeline.
//
// # Storage contract
//
// A [Store] holds at most one [Pair] per namespace. Both slots rotate together:
// Set replaces the whole pair and Clear removes both slots atomically. Absence is
// reported as [ErrNotFound]; backend failures wrap [ErrUnavailable] and are never
// collapsed into a falsely-empty pair.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT decide when credentials are renewed,
// attach tokens to requests, or interpret token contents — those responsibilities
// belong to the Pipeline.
//
// # What this package must NOT do
//
//   - Import goAuthClient or transport (no upward imports).
//   - Perform network calls other than to its own storage backend.
//   - Log or otherwise copy token material outside the backend.
package credential
