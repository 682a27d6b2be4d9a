package dashkit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	csvBOM        = "\ufeff"
	dataURIPrefix = "data:text/csv;charset=utf-8,"
)

// CSVText serializes records to CSV: one line per record, fields in record
// order, every field double-quoted with internal quotes doubled. No header
// line is emitted; uniform records carry their own field order.
func CSVText(records []Record) string {
	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range record {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field.Value, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// DataURI wraps the CSV serialization of records in a BOM-prefixed,
// percent-encoded data: URI, the payload a browser anchor download carries.
func DataURI(records []Record) string {
	return dataURIPrefix + encodeURIComponent(csvBOM+CSVText(records))
}

// encodeURIComponent matches the JavaScript function of the same name for
// the CSV payload alphabet. QueryEscape is the Go spelling, modulo its
// form-encoding of spaces.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Export serializes records and triggers exactly one download with the given
// filename through the configured [Downloader].
//
// Export may return an error when input validation, dependency calls, or security checks fail.
// Export does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Export(records []Record, filename string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if c.downloader == nil {
		return ErrDownloaderMissing
	}
	if len(records) == 0 {
		return ErrExportEmpty
	}
	if strings.TrimSpace(filename) == "" || filename != filepath.Base(filename) {
		return ErrExportFilename
	}

	if err := c.downloader.Download(filename, DataURI(records)); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	c.metrics.Inc(MetricExportTriggered)
	c.emit(context.Background(), AuditEvent{
		EventType: EventExport,
		Success:   true,
		Metadata: map[string]string{
			"filename": filename,
			"records":  fmt.Sprintf("%d", len(records)),
		},
		Timestamp: time.Now(),
	})

	return nil
}

// DirDownloader materializes downloads into a directory, standing in for the
// browser's download target. The file appears atomically: the payload is
// written to a transient sibling that exists only within the Download call,
// then renamed into place.
type DirDownloader struct {
	Dir string
}

// Download implements [Downloader].
func (d *DirDownloader) Download(filename, dataURI string) error {
	if d == nil || d.Dir == "" {
		return ErrDownloaderMissing
	}
	if !strings.HasPrefix(dataURI, dataURIPrefix) {
		return fmt.Errorf("unexpected payload type")
	}

	decoded, err := url.QueryUnescape(strings.TrimPrefix(dataURI, dataURIPrefix))
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, filename+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(decoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(d.Dir, filename))
}
