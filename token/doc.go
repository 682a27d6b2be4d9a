// Package token mints and verifies the HS256-signed tokens the push service
// uses: long-lived auth tokens issued on login, and optional short-lived
// stateless CSRF tokens bound to a session id.
package token
