// Package transport performs the network call for a fully-formed request descriptor
// and classifies the outcome for the request pipeline.
//
// # Classification contract
//
// A completed HTTP exchange always yields a [Response] with a nil error, whatever the
// status code; Response.Unauthorized is derived from HTTP 401 so the pipeline never
// inspects raw status codes. Failures below the HTTP layer (dial, reset, timeout)
// yield an error wrapping [ErrUnavailable] instead, and are kept distinct from the
// unauthorized outcome.
//
// # What this package must NOT do
//
//   - Attach or read credentials — the pipeline owns the Authorization header.
//   - Retry, renew, or otherwise interpret 401 beyond setting the flag.
//   - Import goAuthClient or credential (no upward imports).
package transport
