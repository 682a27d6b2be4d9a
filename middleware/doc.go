// Package middleware exposes the server-side guards of the dashboard: login
// enforcement for API and page routes, and CSRF verification for mutating
// requests.
//
// # Guards
//
//   - [RequireAPI] — rejects unauthenticated API calls with a JSON 401.
//   - [RequirePage] — redirects unauthenticated page loads to the login page.
//   - [CSRF.Protect] — rejects unsafe-method requests lacking a valid CSRF
//     token header with 403.
//
// Each guard reads the Authorization header or auth cookie, verifies the
// token, and injects validated claims into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into token and store calls. It does
// NOT mint tokens or own persistence; those responsibilities belong to the
// token package and internal/store.
//
// # What this package must NOT do
//
//   - Parse JWTs directly (delegates to token.Manager).
//   - Render application pages; rejection responses are minimal and fixed.
package middleware
