package dashkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type recordingShell struct {
	mu        sync.Mutex
	navigated []string
	alerted   []string
}

func (s *recordingShell) Navigate(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigated = append(s.navigated, url)
}

func (s *recordingShell) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerted = append(s.alerted, message)
}

func (s *recordingShell) snapshot() (nav, alerts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigated...), append([]string(nil), s.alerted...)
}

type capturedRequest struct {
	mu     sync.Mutex
	header http.Header
}

func (c *capturedRequest) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header = r.Header.Clone()
}

func (c *capturedRequest) get() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header
}

func newInterceptedClient(t *testing.T, serverURL string, shell Shell, tokens TokenSource) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Origin = serverURL
	cfg.Metrics.Enabled = true

	c, err := New().
		WithConfig(cfg).
		WithShell(shell).
		WithTokenSource(tokens).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(c.Close)

	return c
}

func TestTokenAttachedToUnsafeSameOrigin(t *testing.T) {
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok-123"))

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/dashboard/api/logs", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	_ = resp.Body.Close()

	header := captured.get()
	if got := header.Get("X-CSRF-Token"); got != "tok-123" {
		t.Fatalf("expected token header tok-123, got %q", got)
	}
	if header.Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
	if got := c.MetricsSnapshot().Counters[MetricTokenAttached]; got != 1 {
		t.Fatalf("expected token attached counter 1, got %d", got)
	}
}

func TestTokenNotAttachedToSafeMethods(t *testing.T) {
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok-123"))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		req, _ := http.NewRequest(method, srv.URL+"/dashboard", nil)
		resp, err := c.Do(req)
		if err != nil {
			t.Fatalf("%s failed: %v", method, err)
		}
		_ = resp.Body.Close()

		if _, present := captured.get()["X-Csrf-Token"]; present {
			t.Fatalf("%s request must not carry the token header", method)
		}
	}
}

func TestTokenNotAttachedCrossOrigin(t *testing.T) {
	captured := &capturedRequest{}
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()

	// Origin points somewhere other than the target server.
	c := newInterceptedClient(t, "http://dashboard.local", &recordingShell{}, StaticTokenSource("tok-123"))

	req, _ := http.NewRequest(http.MethodPost, other.URL+"/hook", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	_ = resp.Body.Close()

	if _, present := captured.get()["X-Csrf-Token"]; present {
		t.Fatal("cross-origin request must not carry the token header")
	}
}

func TestEmptyTokenStillSendsHeader(t *testing.T) {
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource(""))

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/dashboard/api/logs", nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	_ = resp.Body.Close()

	values, present := captured.get()["X-Csrf-Token"]
	if !present || len(values) != 1 || values[0] != "" {
		t.Fatalf("expected empty token header to be sent, got %v (present=%v)", values, present)
	}
	if got := c.MetricsSnapshot().Counters[MetricTokenMissing]; got != 1 {
		t.Fatalf("expected token missing counter 1, got %d", got)
	}
}

func TestResponseInterceptorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantNav    int
		wantAlerts int
	}{
		{name: "unauthorized redirects", status: http.StatusUnauthorized, wantNav: 1},
		{name: "forbidden alerts", status: http.StatusForbidden, wantAlerts: 1},
		{name: "server error alerts", status: http.StatusInternalServerError, wantAlerts: 1},
		{name: "bad gateway alerts", status: http.StatusBadGateway, wantAlerts: 1},
		{name: "ok untouched", status: http.StatusOK},
		{name: "not found untouched", status: http.StatusNotFound},
		{name: "bad request untouched", status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			shell := &recordingShell{}
			c := newInterceptedClient(t, srv.URL, shell, StaticTokenSource("tok"))

			resp, err := c.Get(context.Background(), "/dashboard/api/logs")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			_ = resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("response status passed through wrong: got %d, want %d", resp.StatusCode, tc.status)
			}

			nav, alerts := shell.snapshot()
			if len(nav) != tc.wantNav {
				t.Fatalf("navigations = %v, want %d", nav, tc.wantNav)
			}
			if len(alerts) != tc.wantAlerts {
				t.Fatalf("alerts = %v, want %d", alerts, tc.wantAlerts)
			}
		})
	}
}

func TestUnauthorizedNavigatesToLoginPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	shell := &recordingShell{}
	c := newInterceptedClient(t, srv.URL, shell, StaticTokenSource("tok"))

	resp, err := c.Get(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	_ = resp.Body.Close()

	nav, _ := shell.snapshot()
	if len(nav) != 1 || nav[0] != "/auth/login" {
		t.Fatalf("expected navigation to /auth/login, got %v", nav)
	}
	if got := c.MetricsSnapshot().Counters[MetricUnauthorizedRedirect]; got != 1 {
		t.Fatalf("expected redirect counter 1, got %d", got)
	}
}

func TestAlertMessagesComeFromConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Origin = srv.URL
	cfg.Alerts.ForbiddenMessage = "nope"

	shell := &recordingShell{}
	c, err := New().WithConfig(cfg).WithShell(shell).WithTokenSource(StaticTokenSource("tok")).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer c.Close()

	resp, err := c.Get(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	_ = resp.Body.Close()

	_, alerts := shell.snapshot()
	if len(alerts) != 1 || alerts[0] != "nope" {
		t.Fatalf("expected configured alert message, got %v", alerts)
	}
}

func TestIsSafeMethod(t *testing.T) {
	safe := []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace}
	unsafe := []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, "CUSTOM"}

	for _, m := range safe {
		if !isSafeMethod(m) {
			t.Fatalf("%s should be safe", m)
		}
	}
	for _, m := range unsafe {
		if isSafeMethod(m) {
			t.Fatalf("%s should be unsafe", m)
		}
	}
}

func TestSameOrigin(t *testing.T) {
	parse := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		return u
	}

	tests := []struct {
		name   string
		origin string
		target string
		want   bool
	}{
		{name: "exact match", origin: "http://host:8080", target: "http://host:8080/path", want: true},
		{name: "default http port matches explicit 80", origin: "http://host", target: "http://host:80/path", want: true},
		{name: "default https port matches explicit 443", origin: "https://host", target: "https://host:443/path", want: true},
		{name: "scheme differs", origin: "http://host", target: "https://host", want: false},
		{name: "host differs", origin: "http://host", target: "http://other", want: false},
		{name: "port differs", origin: "http://host:8080", target: "http://host:9090", want: false},
		{name: "relative target is same origin", origin: "http://host", target: "/dashboard/api/logs", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sameOrigin(parse(tc.origin), parse(tc.target)); got != tc.want {
				t.Fatalf("sameOrigin(%q, %q) = %v, want %v", tc.origin, tc.target, got, tc.want)
			}
		})
	}
}

func TestRequestIDPreserved(t *testing.T) {
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/dashboard", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	_ = resp.Body.Close()

	if got := captured.get().Get("X-Request-Id"); got != "caller-id" {
		t.Fatalf("expected caller-supplied request id to survive, got %q", got)
	}
}
