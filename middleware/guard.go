package middleware

import (
	"context"
	"net/http"
	"strings"

	"dashkit/token"
)

// Verifier validates a signed auth token and returns its claims.
// *token.Manager satisfies it.
type Verifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type claimsContextKey struct{}

// ClaimsFromContext returns the claims a guard injected for the current
// request.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims, ok
}

// guard verifies the auth token carried in the Authorization header or the
// named cookie and either forwards the request with claims in context or
// hands it to reject.
func guard(verifier Verifier, cookieName string, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				reject(w, r)
				return
			}

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok && cookieName != "" {
				if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
					tokenString, ok = cookie.Value, true
				}
			}
			if !ok {
				reject(w, r)
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				reject(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tokenString := value[len(bearer):]
	if tokenString == "" {
		return "", false
	}

	return tokenString, true
}
