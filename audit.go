package dashkit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEvent records one observable action of the interceptor layer: a token
// attached, a redirect or alert triggered, an export handed off.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Method    string            `json:"method,omitempty"`
	URL       string            `json:"url,omitempty"`
	Status    int               `json:"status,omitempty"`
	ClientIP  string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Event types emitted by the client and middleware.
const (
	EventTokenAttached  = "csrf.token_attached"
	EventTokenMissing   = "csrf.token_missing"
	EventCSRFIssued     = "csrf.issued"
	EventCSRFRejected   = "csrf.rejected"
	EventLoginRedirect  = "response.login_redirect"
	EventForbiddenAlert = "response.forbidden_alert"
	EventServerAlert    = "response.server_error_alert"
	EventExport         = "export.download"
)

// AuditSink receives audit events. Emit must not block longer than ctx
// allows; slow sinks cause drops when DropIfFull is set.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements [AuditSink].
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for consumption by the
// host application.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a sink buffering up to buffer events.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit implements [AuditSink].
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the sink's channel.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a sink writing newline-delimited JSON to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit implements [AuditSink].
func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
