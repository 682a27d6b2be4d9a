package dashkit

import (
	"errors"
	"net/http"
	"net/url"

	"dashkit/pagemeta"
)

// Builder defines a public type used by dashkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	shell      Shell
	downloader Downloader
	tokens     TokenSource
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithShell describes the withshell operation and its observable behavior.
//
// WithShell may return an error when input validation, dependency calls, or security checks fail.
// WithShell does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithShell(shell Shell) *Builder {
	b.shell = shell
	return b
}

// WithDownloader describes the withdownloader operation and its observable behavior.
//
// WithDownloader may return an error when input validation, dependency calls, or security checks fail.
// WithDownloader does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDownloader(d Downloader) *Builder {
	b.downloader = d
	return b
}

// WithTokenSource describes the withtokensource operation and its observable behavior.
//
// WithTokenSource may return an error when input validation, dependency calls, or security checks fail.
// WithTokenSource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTokenSource(ts TokenSource) *Builder {
	b.tokens = ts
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build registers the request and response interceptors on the client's
// transport exactly once; the returned [Client] owns that configuration for
// its lifetime.
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	origin, err := url.Parse(b.config.Origin)
	if err != nil {
		return nil, ErrOriginInvalid
	}

	c := &Client{
		config:  b.config,
		origin:  origin,
		shell:   b.shell,
		tokens:  b.tokens,
		metrics: NewMetrics(b.config.Metrics),
	}

	if c.shell == nil {
		c.shell = NoOpShell{}
	}
	if c.tokens == nil {
		// Default to reading the token off the login page, the way the
		// dashboard pages do on load.
		loginURL := origin.JoinPath(b.config.Auth.LoginPath).String()
		c.tokens = pagemeta.NewSource(&http.Client{}, loginURL, b.config.Token.MetaName)
	}

	c.downloader = b.downloader
	if c.downloader == nil && b.config.Export.Dir != "" {
		c.downloader = &DirDownloader{Dir: b.config.Export.Dir}
	}

	c.audit = newAuditDispatcher(b.config.Audit, b.auditSink)

	base := b.httpClient
	if base == nil {
		base = &http.Client{}
	}
	inner := base.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	c.http = &http.Client{
		Transport: &hookTransport{
			base:   inner,
			client: c,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}

	b.built = true

	return c, nil
}
