// Package store provides the Redis-backed CSRF token store: one short-lived
// opaque token per session, overwritten on re-issue and expired by TTL.
//
// # Architecture boundaries
//
// This package owns persistence for transient CSRF tokens. It does NOT
// decide which requests need a token or how rejection is rendered; those
// responsibilities belong to the middleware package.
//
// # What this package must NOT do
//
//   - Import dashkit or any sibling internal package.
//   - Log or expose tokens.
//   - Use non-constant-time comparisons for token matching.
package store
