package dashkit

import "context"

// Shell is the interface to the browser-level primitives the response
// interceptor needs: navigating away from the current view and showing a
// blocking message. Hosts embedding the dashboard (webview shells, TUIs,
// test harnesses) implement it; both calls are fire-and-forget.
type Shell interface {
	Navigate(url string)
	Alert(message string)
}

// NoOpShell discards navigation and alert requests. It is the default when
// no shell is configured, so interceptors never dereference nil.
type NoOpShell struct{}

// Navigate implements [Shell].
func (NoOpShell) Navigate(string) {}

// Alert implements [Shell].
func (NoOpShell) Alert(string) {}

// Downloader receives the one-shot file download an export triggers. The
// payload arrives as a data: URI, the same form a browser anchor element
// would carry in its href attribute.
type Downloader interface {
	Download(filename, dataURI string) error
}

// TokenSource supplies the CSRF token the request interceptor attaches to
// unsafe same-origin requests. An empty return is valid and means the page
// carried no token.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticTokenSource returns a [TokenSource] that always yields the given
// token. Useful for tests and for pages whose token is read once at load.
func StaticTokenSource(token string) TokenSource {
	return staticTokenSource(token)
}

type staticTokenSource string

func (s staticTokenSource) Token(context.Context) string { return string(s) }

// TokenSourceFunc adapts a plain function to [TokenSource].
type TokenSourceFunc func(ctx context.Context) string

// Token implements [TokenSource].
func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// Field is a single named value inside a [Record]. Order is significant:
// CSV export emits fields in record order.
type Field struct {
	Name  string
	Value string
}

// Record is one uniform row of an export: the same field names, in the same
// order, across every record of a dataset.
type Record []Field

// LogEntry is one row of the push-service request log as the dashboard API
// returns it. DurationMS is nil when the backend recorded no response time.
type LogEntry struct {
	ID           int64    `json:"id"`
	Timestamp    string   `json:"timestamp"`
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	ClientIP     string   `json:"client_ip"`
	CorpID       string   `json:"corp_id"`
	AgentID      int64    `json:"agent_id"`
	ToUser       string   `json:"touser"`
	Message      string   `json:"message"`
	StatusCode   int      `json:"status_code"`
	DurationMS   *float64 `json:"response_time"`
	Success      bool     `json:"success"`
	ErrorMessage string   `json:"error_message"`
}

// LogQuery carries the filters of a paginated log listing. Zero values mean
// "no filter"; Page and Limit default server-side to 1 and 20.
type LogQuery struct {
	Page      int
	Limit     int
	CorpID    string
	StartDate string
	EndDate   string
	Keyword   string
}

// Pagination echoes the server's paging bookkeeping.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// LogPage is one page of log entries plus its pagination envelope.
type LogPage struct {
	Entries    []LogEntry `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Statistics summarizes push activity over a trailing window of days.
type Statistics struct {
	Days          int     `json:"days"`
	TotalRequests int64   `json:"total_requests"`
	SuccessCount  int64   `json:"success_count"`
	FailureCount  int64   `json:"failure_count"`
	SuccessRate   float64 `json:"success_rate"`
	AvgDurationMS float64 `json:"avg_response_time"`
}
