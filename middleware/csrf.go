package middleware

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"dashkit"
	"dashkit/internal/store"
	"dashkit/token"
)

// CSRFParams collects the collaborators a [CSRF] protector needs. Redis is
// required for [dashkit.StrategyOpaque], Signer for [dashkit.StrategySigned].
type CSRFParams struct {
	Config dashkit.Config
	Redis  redis.UniversalClient
	Signer *token.Manager
	// SessionID extracts the session identifier a token is bound to.
	// Defaults to the value of the "session" cookie.
	SessionID func(*http.Request) string
	AuditSink dashkit.AuditSink
	Metrics   *dashkit.Metrics
}

// CSRF is the server half of the token contract: it issues tokens for page
// renders and verifies the token header on every unsafe-method request.
type CSRF struct {
	cfg       dashkit.CSRFConfig
	header    string
	metaName  string
	store     *store.TokenStore
	signer    *token.Manager
	sessionID func(*http.Request) string
	audit     dashkit.AuditSink
	metrics   *dashkit.Metrics
}

// NewCSRF describes the newcsrf operation and its observable behavior.
//
// NewCSRF may return an error when input validation, dependency calls, or security checks fail.
// NewCSRF does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCSRF(p CSRFParams) (*CSRF, error) {
	cfg := p.Config.CSRF
	if cfg.TTL <= 0 {
		return nil, errors.New("CSRF TTL must be > 0")
	}

	c := &CSRF{
		cfg:       cfg,
		header:    p.Config.Token.HeaderName,
		metaName:  p.Config.Token.MetaName,
		signer:    p.Signer,
		sessionID: p.SessionID,
		audit:     p.AuditSink,
		metrics:   p.Metrics,
	}
	if c.header == "" {
		c.header = "X-CSRF-Token"
	}
	if c.metaName == "" {
		c.metaName = "csrf-token"
	}
	if c.sessionID == nil {
		c.sessionID = sessionCookie
	}
	if c.audit == nil {
		c.audit = dashkit.NoOpSink{}
	}

	switch cfg.Strategy {
	case dashkit.StrategyOpaque:
		if p.Redis == nil {
			return nil, errors.New("opaque CSRF strategy requires a redis client")
		}
		c.store = store.NewTokenStore(p.Redis, cfg.RedisPrefix)
	case dashkit.StrategySigned:
		if p.Signer == nil {
			return nil, errors.New("signed CSRF strategy requires a token manager")
		}
	default:
		return nil, errors.New("unsupported CSRF strategy")
	}

	return c, nil
}

// Issue creates a token bound to sessionID for embedding into page markup.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *CSRF) Issue(ctx context.Context, sessionID string) (string, error) {
	var (
		tok string
		err error
	)
	switch c.cfg.Strategy {
	case dashkit.StrategySigned:
		tok, err = c.signer.MintCSRF(sessionID, c.cfg.TTL)
	default:
		tok, err = c.store.Issue(ctx, sessionID, c.cfg.TTL)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", dashkit.ErrCSRFUnavailable, err)
	}

	c.metrics.Inc(dashkit.MetricCSRFIssued)
	c.audit.Emit(ctx, dashkit.AuditEvent{
		Timestamp: time.Now(),
		EventType: dashkit.EventCSRFIssued,
		Success:   true,
	})

	return tok, nil
}

// MetaTag renders the meta element a page template embeds so the client-side
// token reader can find the token.
func (c *CSRF) MetaTag(tok string) string {
	return fmt.Sprintf("<meta name=%q content=%q>", c.metaName, html.EscapeString(tok))
}

// Verify checks a bare token against the session it must be bound to.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *CSRF) Verify(ctx context.Context, sessionID, tok string) error {
	if tok == "" {
		return dashkit.ErrCSRFMissing
	}

	switch c.cfg.Strategy {
	case dashkit.StrategySigned:
		if err := c.signer.VerifyCSRF(tok, sessionID); err != nil {
			return fmt.Errorf("%w: %v", dashkit.ErrCSRFInvalid, err)
		}
		return nil
	default:
		err := c.store.Verify(ctx, sessionID, tok)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, store.ErrRedisUnavailable):
			return fmt.Errorf("%w: %v", dashkit.ErrCSRFUnavailable, err)
		default:
			return fmt.Errorf("%w: %v", dashkit.ErrCSRFInvalid, err)
		}
	}
}

// Protect wraps a handler with CSRF enforcement. Safe methods (GET, HEAD,
// OPTIONS, TRACE) pass untouched; every other method must carry a valid
// token in the configured header.
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}

		ctx := dashkit.WithClientIP(r.Context(), remoteIP(r))
		ctx = dashkit.WithUserAgent(ctx, r.UserAgent())
		r = r.WithContext(ctx)

		err := c.Verify(ctx, c.sessionID(r), r.Header.Get(c.header))
		if err == nil {
			c.metrics.Inc(dashkit.MetricCSRFVerified)
			next.ServeHTTP(w, r)
			return
		}

		c.metrics.Inc(dashkit.MetricCSRFRejected)
		c.audit.Emit(ctx, dashkit.AuditEvent{
			Timestamp: time.Now(),
			EventType: dashkit.EventCSRFRejected,
			Method:    r.Method,
			URL:       r.URL.String(),
			ClientIP:  dashkit.ClientIPFromContext(ctx),
			Error:     err.Error(),
			Metadata: map[string]string{
				"user_agent": dashkit.UserAgentFromContext(ctx),
			},
		})

		if errors.Is(err, dashkit.ErrCSRFUnavailable) {
			writeJSONError(w, http.StatusServiceUnavailable, "csrf verification unavailable")
			return
		}
		writeJSONError(w, http.StatusForbidden, "csrf token missing or invalid")
	})
}

func sessionCookie(r *http.Request) string {
	cookie, err := r.Cookie("session")
	if err != nil {
		return ""
	}
	return cookie.Value
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
