package dashkit

import (
	"context"
	"net/http"
	"time"
)

// handleFailure is the global response interceptor: it reacts to the failed
// response's status and nothing else. It never returns an error and never
// panics; statuses it does not recognize are left to per-call handlers.
func (c *Client) handleFailure(req *http.Request, resp *http.Response) {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.metrics.Inc(MetricUnauthorizedRedirect)
		c.emit(req.Context(), AuditEvent{
			EventType: EventLoginRedirect,
			RequestID: req.Header.Get(c.config.Token.RequestIDHeader),
			Method:    req.Method,
			URL:       req.URL.String(),
			Status:    resp.StatusCode,
		})
		c.shell.Navigate(c.config.Auth.LoginPath)

	case resp.StatusCode == http.StatusForbidden:
		c.metrics.Inc(MetricForbiddenAlert)
		c.emit(req.Context(), AuditEvent{
			EventType: EventForbiddenAlert,
			RequestID: req.Header.Get(c.config.Token.RequestIDHeader),
			Method:    req.Method,
			URL:       req.URL.String(),
			Status:    resp.StatusCode,
		})
		c.shell.Alert(c.config.Alerts.ForbiddenMessage)

	case resp.StatusCode >= http.StatusInternalServerError:
		c.metrics.Inc(MetricServerErrorAlert)
		c.emit(req.Context(), AuditEvent{
			EventType: EventServerAlert,
			RequestID: req.Header.Get(c.config.Token.RequestIDHeader),
			Method:    req.Method,
			URL:       req.URL.String(),
			Status:    resp.StatusCode,
		})
		c.shell.Alert(c.config.Alerts.ServerErrorMessage)
	}
}

func (c *Client) emit(ctx context.Context, event AuditEvent) {
	if c == nil || c.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	c.audit.Emit(ctx, event)
}
