package dashkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogsQueryAndEnvelope(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/api/logs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id":            7,
					"timestamp":     "2026-08-01 09:30:15",
					"corp_id":       "ww123",
					"touser":        "alice",
					"message":       "deploy done",
					"status_code":   200,
					"response_time": 12.3,
					"success":       true,
				},
				{
					"id":            8,
					"timestamp":     "2026-08-01 09:31:00",
					"corp_id":       "ww123",
					"touser":        "bob",
					"message":       "deploy failed",
					"status_code":   500,
					"response_time": nil,
					"success":       false,
					"error_message": "upstream timeout",
				},
			},
			"pagination": map[string]int{
				"page":  2,
				"limit": 20,
				"total": 45,
				"pages": 3,
			},
		})
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	page, err := c.Logs(context.Background(), LogQuery{
		Page:      2,
		Limit:     20,
		CorpID:    "ww123",
		StartDate: "2026-08-01",
		Keyword:   "deploy",
	})
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}

	if got := gotQuery["page"]; len(got) != 1 || got[0] != "2" {
		t.Fatalf("page param = %v", got)
	}
	if got := gotQuery["corp_id"]; len(got) != 1 || got[0] != "ww123" {
		t.Fatalf("corp_id param = %v", got)
	}
	if got := gotQuery["keyword"]; len(got) != 1 || got[0] != "deploy" {
		t.Fatalf("keyword param = %v", got)
	}
	if _, present := gotQuery["end_date"]; present {
		t.Fatal("unset filter must not be sent")
	}

	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}
	if page.Pagination.Total != 45 || page.Pagination.Pages != 3 {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}

	first := page.Entries[0]
	if first.DurationMS == nil || *first.DurationMS != 12.3 {
		t.Fatalf("unexpected response_time %v", first.DurationMS)
	}
	second := page.Entries[1]
	if second.DurationMS != nil {
		t.Fatalf("expected nil response_time, got %v", *second.DurationMS)
	}
	if second.ErrorMessage != "upstream timeout" {
		t.Fatalf("unexpected error message %q", second.ErrorMessage)
	}
}

func TestLogsFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "query failed",
		})
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	_, err := c.Logs(context.Background(), LogQuery{})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "query failed") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}

func TestLogsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	if _, err := c.Logs(context.Background(), LogQuery{}); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestLogsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	if _, err := c.Logs(context.Background(), LogQuery{}); !errors.Is(err, ErrDecodeResponse) {
		t.Fatalf("expected ErrDecodeResponse, got %v", err)
	}
}

func TestStatistics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/api/statistics" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("days"); got != "7" {
			t.Errorf("days param = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"days":              7,
				"total_requests":    120,
				"success_count":     110,
				"failure_count":     10,
				"success_rate":      91.67,
				"avg_response_time": 34.5,
			},
		})
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("tok"))

	stats, err := c.Statistics(context.Background(), 7)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if stats.TotalRequests != 120 || stats.FailureCount != 10 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
	if stats.AvgDurationMS != 34.5 {
		t.Fatalf("unexpected avg response time %v", stats.AvgDurationMS)
	}
}

func TestExportLogsColumnOrderAndFormatting(t *testing.T) {
	ms := 12.3
	entries := []LogEntry{
		{
			Timestamp:  "2026-08-01T09:30:15Z",
			CorpID:     "ww123",
			ToUser:     "alice",
			Message:    `say "hi"`,
			StatusCode: 200,
			DurationMS: &ms,
			Success:    true,
		},
		{
			Timestamp:    "",
			CorpID:       "ww123",
			ToUser:       "bob",
			Message:      "oops",
			StatusCode:   500,
			DurationMS:   nil,
			Success:      false,
			ErrorMessage: "upstream timeout",
		},
	}

	dl := &recordingDownloader{}
	c := newTestClient(t, func(b *Builder) {
		b.WithDownloader(dl)
	})

	if err := c.ExportLogs(entries, "logs.csv"); err != nil {
		t.Fatalf("ExportLogs failed: %v", err)
	}

	wantCSV := `"2026-08-01 09:30:15","ww123","alice","say ""hi""","200","12.30 ms","true",""` + "\n" +
		`"-","ww123","bob","oops","500","-","false","upstream timeout"`

	wantURI := dataURIPrefix + encodeURIComponent(csvBOM+wantCSV)
	if dl.dataURI != wantURI {
		t.Fatalf("export payload mismatch:\n got %q\nwant %q", dl.dataURI, wantURI)
	}
}

func TestFetchTokenReadsLoginPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html><head><meta name="csrf-token" content="page-tok"></head><body></body></html>`))
	}))
	defer srv.Close()

	c := newInterceptedClient(t, srv.URL, &recordingShell{}, StaticTokenSource("unused"))

	tok, err := c.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("FetchToken failed: %v", err)
	}
	if tok != "page-tok" {
		t.Fatalf("expected page-tok, got %q", tok)
	}
}

func TestNilClientOperationsFail(t *testing.T) {
	var c *Client

	if _, err := c.Logs(context.Background(), LogQuery{}); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected ErrClientNotReady, got %v", err)
	}
	if _, err := c.Statistics(context.Background(), 7); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected ErrClientNotReady, got %v", err)
	}
	if err := c.Export([]Record{{{Name: "a", Value: "1"}}}, "x.csv"); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected ErrClientNotReady, got %v", err)
	}
}
