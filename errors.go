package dashkit

import "errors"

var (
	// ErrClientNotReady is an exported constant or variable used by the dashboard client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrOriginInvalid is an exported constant or variable used by the dashboard client.
	ErrOriginInvalid = errors.New("invalid page origin")
	// ErrDownloaderMissing is an exported constant or variable used by the dashboard client.
	ErrDownloaderMissing = errors.New("no downloader configured")
	// ErrExportEmpty is an exported constant or variable used by the dashboard client.
	ErrExportEmpty = errors.New("nothing to export")
	// ErrExportFilename is an exported constant or variable used by the dashboard client.
	ErrExportFilename = errors.New("invalid export filename")
	// ErrRequestFailed is an exported constant or variable used by the dashboard client.
	ErrRequestFailed = errors.New("request failed")
	// ErrDecodeResponse is an exported constant or variable used by the dashboard client.
	ErrDecodeResponse = errors.New("response decode failed")
	// ErrCSRFMissing is an exported constant or variable used by the dashboard client.
	ErrCSRFMissing = errors.New("csrf token missing")
	// ErrCSRFInvalid is an exported constant or variable used by the dashboard client.
	ErrCSRFInvalid = errors.New("csrf token invalid")
	// ErrCSRFUnavailable is an exported constant or variable used by the dashboard client.
	ErrCSRFUnavailable = errors.New("csrf token backend unavailable")
)
