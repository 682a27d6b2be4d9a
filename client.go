package dashkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"dashkit/pagemeta"
)

// Dashboard API paths, as served by the push service.
const (
	logsPath       = "/dashboard/api/logs"
	statisticsPath = "/dashboard/api/statistics"
)

// Client defines a public type used by dashkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config     Config
	origin     *url.URL
	http       *http.Client
	shell      Shell
	downloader Downloader
	tokens     TokenSource
	audit      *auditDispatcher
	metrics    *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// HTTPClient returns the shared http.Client carrying the interceptor
// configuration. Requests issued through it directly still get the token
// header and the failure hook.
func (c *Client) HTTPClient() *http.Client {
	if c == nil {
		return nil
	}
	return c.http
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// Do describes the do operation and its observable behavior.
//
// Do may return an error when input validation, dependency calls, or security checks fail.
// Do does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}
	return c.http.Do(req)
}

// Get issues a GET against a path relative to the client's origin.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin.JoinPath(path).String(), nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// FetchToken reads the CSRF token off the login page's meta tag using the
// client's shared transport. An absent tag yields an empty token, not an
// error.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	if c == nil || c.http == nil {
		return "", ErrClientNotReady
	}
	loginURL := c.origin.JoinPath(c.config.Auth.LoginPath).String()
	return pagemeta.Fetch(ctx, c.http, loginURL, c.config.Token.MetaName)
}

// Logs queries one page of the push-service request log.
//
// Logs may return an error when input validation, dependency calls, or security checks fail.
// Logs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Logs(ctx context.Context, q LogQuery) (*LogPage, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}

	u := c.origin.JoinPath(logsPath)
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CorpID != "" {
		params.Set("corp_id", q.CorpID)
	}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !statusOK(resp.StatusCode) {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var envelope struct {
		Success    bool       `json:"success"`
		Data       []LogEntry `json:"data"`
		Pagination Pagination `json:"pagination"`
		Error      string     `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, envelope.Error)
	}

	return &LogPage{
		Entries:    envelope.Data,
		Pagination: envelope.Pagination,
	}, nil
}

// Statistics fetches push activity statistics over the trailing days window.
//
// Statistics may return an error when input validation, dependency calls, or security checks fail.
// Statistics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Statistics(ctx context.Context, days int) (*Statistics, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}

	u := c.origin.JoinPath(statisticsPath)
	if days > 0 {
		u.RawQuery = url.Values{"days": []string{strconv.Itoa(days)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !statusOK(resp.StatusCode) {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var envelope struct {
		Success bool       `json:"success"`
		Data    Statistics `json:"data"`
		Error   string     `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, envelope.Error)
	}

	return &envelope.Data, nil
}

// ExportLogs renders log entries with the display formatters and hands the
// resulting CSV to the downloader. Column order matches the dashboard's log
// table.
//
// ExportLogs may return an error when input validation, dependency calls, or security checks fail.
// ExportLogs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) ExportLogs(entries []LogEntry, filename string) error {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			{Name: "timestamp", Value: FormatDateTime(e.Timestamp)},
			{Name: "corp_id", Value: e.CorpID},
			{Name: "touser", Value: e.ToUser},
			{Name: "message", Value: e.Message},
			{Name: "status_code", Value: strconv.Itoa(e.StatusCode)},
			{Name: "response_time", Value: FormatDuration(e.DurationMS)},
			{Name: "success", Value: strconv.FormatBool(e.Success)},
			{Name: "error_message", Value: e.ErrorMessage},
		})
	}
	return c.Export(records, filename)
}

func statusOK(status int) bool {
	return status >= 200 && status < 400
}
