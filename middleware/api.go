package middleware

import (
	"encoding/json"
	"net/http"
)

// RequireAPI returns middleware for API routes: unauthenticated requests get
// a JSON 401 envelope instead of a redirect, leaving the caller's view state
// alone.
func RequireAPI(verifier Verifier, cookieName string) func(http.Handler) http.Handler {
	return guard(verifier, cookieName, func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusUnauthorized, "not logged in")
	})
}

// writeJSONError renders the dashboard's failure envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
