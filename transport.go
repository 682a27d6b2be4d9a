package dashkit

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// hookTransport is the client-wide interceptor pair: it decorates every
// outgoing request (token header on unsafe same-origin requests, request id
// on all) and runs the failure hook once on every non-2xx/3xx response.
type hookTransport struct {
	base   http.RoundTripper
	client *Client
}

// RoundTrip implements http.RoundTripper.
func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c := t.client
	out := req.Clone(req.Context())

	if h := c.config.Token.RequestIDHeader; h != "" && out.Header.Get(h) == "" {
		out.Header.Set(h, uuid.NewString())
	}

	if !isSafeMethod(out.Method) && sameOrigin(c.origin, out.URL) {
		token := c.tokens.Token(out.Context())
		out.Header.Set(c.config.Token.HeaderName, token)
		if token != "" {
			c.metrics.Inc(MetricTokenAttached)
			c.emit(out.Context(), AuditEvent{
				EventType: EventTokenAttached,
				RequestID: out.Header.Get(c.config.Token.RequestIDHeader),
				Method:    out.Method,
				URL:       out.URL.String(),
				Success:   true,
			})
		} else {
			c.metrics.Inc(MetricTokenMissing)
			c.emit(out.Context(), AuditEvent{
				EventType: EventTokenMissing,
				RequestID: out.Header.Get(c.config.Token.RequestIDHeader),
				Method:    out.Method,
				URL:       out.URL.String(),
			})
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	if err != nil {
		c.metrics.Inc(MetricRequestFailure)
		return nil, err
	}
	c.metrics.Observe(MetricRequestLatency, time.Since(start))

	if statusOK(resp.StatusCode) {
		c.metrics.Inc(MetricRequestSuccess)
	} else {
		c.metrics.Inc(MetricRequestFailure)
		c.handleFailure(out, resp)
	}

	return resp, nil
}

// isSafeMethod reports whether method is defined not to mutate server state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// sameOrigin reports whether target shares scheme, hostname, and port with
// origin. Default ports are normalized before comparison; a relative target
// inherits the page origin.
func sameOrigin(origin, target *url.URL) bool {
	if target == nil {
		return false
	}
	if target.Scheme == "" && target.Host == "" {
		return true
	}
	if origin == nil {
		return false
	}
	if origin.Scheme != target.Scheme {
		return false
	}
	if origin.Hostname() != target.Hostname() {
		return false
	}
	return portOf(origin) == portOf(target)
}

func portOf(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch u.Scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
