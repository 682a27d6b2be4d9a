// Package dashkit provides the HTTP plumbing for a message-push service's
// web dashboard: CSRF token handling on both sides of the wire, global
// failure handling for dashboard requests, and the presentation helpers the
// dashboard pages rely on (date/duration formatting, CSV export).
//
// The package is designed around a shared, client-wide configuration: the
// request and response interceptors are registered once on the [Client]'s
// transport through [Builder.Build] and apply uniformly to every request the
// client issues. Client methods are safe to call from multiple goroutines
// after initialization.
//
// # Architecture boundaries
//
// dashkit is the public surface. It exposes [Client], [Builder], [Config],
// and value types (Record, LogEntry, MetricsSnapshot, etc.). The redis token
// store lives under internal/ and is never exported. Leaf concerns live in
// subpackages:
// [dashkit/pagemeta] reads tokens out of page markup, [dashkit/token] mints
// and verifies signed tokens, [dashkit/middleware] carries the server-side
// guards.
//
// # What this package must NOT do
//
//   - Retry, back off, or time out requests; that policy belongs to the
//     http.Client the caller supplies.
//   - Expose the redis client or token store encoding in its public API.
//   - Raise panics from interceptors or formatters; absent input is a valid,
//     non-exceptional result everywhere.
package dashkit
