package middleware

import "net/http"

// RequirePage returns middleware for page routes: unauthenticated loads are
// redirected to the login page, discarding the current view.
func RequirePage(verifier Verifier, cookieName, loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	return guard(verifier, cookieName, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loginPath, http.StatusFound)
	})
}
