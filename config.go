package dashkit

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by dashkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Origin is the page origin (scheme://host[:port]) the client belongs
	// to. The CSRF header is attached only to requests targeting it.
	Origin string

	Token   TokenConfig
	Auth    AuthConfig
	Alerts  AlertConfig
	Export  ExportConfig
	CSRF    CSRFConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by dashkit APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// MetaName is the name attribute of the meta tag carrying the CSRF
	// token in page markup.
	MetaName string
	// HeaderName is the request header the interceptor attaches the token
	// under, and the header the server middleware verifies.
	HeaderName string
	// RequestIDHeader carries the per-request correlation id. Empty
	// disables request id injection.
	RequestIDHeader string
}

/*
====================================
AUTH CONFIG
====================================
*/

// AuthConfig defines a public type used by dashkit APIs.
//
// AuthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthConfig struct {
	// LoginPath is where the response interceptor navigates on 401.
	LoginPath string
	// CookieName is the auth token cookie the page guards fall back to
	// when no Authorization header is present.
	CookieName string
	// TokenTTL bounds minted auth tokens.
	TokenTTL time.Duration
	// Secret signs HS256 tokens. Required only when minting or verifying.
	Secret []byte
}

/*
====================================
ALERT CONFIG
====================================
*/

// AlertConfig defines a public type used by dashkit APIs.
//
// AlertConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AlertConfig struct {
	ForbiddenMessage   string
	ServerErrorMessage string
}

/*
====================================
EXPORT CONFIG
====================================
*/

// ExportConfig defines a public type used by dashkit APIs.
//
// ExportConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ExportConfig struct {
	// Dir is where DirDownloader materializes downloads when no custom
	// Downloader is supplied.
	Dir string
}

/*
====================================
CSRF CONFIG
====================================
*/

// CSRFStrategy defines a public type used by dashkit APIs.
//
// CSRFStrategy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CSRFStrategy int

const (
	// StrategyOpaque is an exported constant or variable used by the dashboard client.
	// Tokens are random values stored server-side in redis with a TTL.
	StrategyOpaque CSRFStrategy = iota
	// StrategySigned is an exported constant or variable used by the dashboard client.
	// Tokens are stateless HS256-signed values bound to the session id.
	StrategySigned
)

// CSRFConfig defines a public type used by dashkit APIs.
//
// CSRFConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CSRFConfig struct {
	Strategy    CSRFStrategy
	TTL         time.Duration
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by dashkit APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by dashkit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS
====================================
*/

// DefaultConfig returns the configuration the original dashboard ships with:
// token in a "csrf-token" meta tag, "X-CSRF-Token" header, login at
// /auth/login, 30-minute opaque CSRF tokens, 7-day auth tokens.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			MetaName:        "csrf-token",
			HeaderName:      "X-CSRF-Token",
			RequestIDHeader: "X-Request-Id",
		},
		Auth: AuthConfig{
			LoginPath:  "/auth/login",
			CookieName: "auth_token",
			TokenTTL:   7 * 24 * time.Hour,
		},
		Alerts: AlertConfig{
			ForbiddenMessage:   "You do not have permission to perform this action.",
			ServerErrorMessage: "The server encountered an error. Please try again later.",
		},
		CSRF: CSRFConfig{
			Strategy:    StrategyOpaque,
			TTL:         30 * time.Minute,
			RedisPrefix: "csrf",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Auth.Secret = cloneBytes(cfg.Auth.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Origin
	if strings.TrimSpace(c.Origin) == "" {
		return errors.New("Origin must be set")
	}
	origin, err := url.Parse(c.Origin)
	if err != nil {
		return errors.New("Origin must be a valid URL")
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return errors.New("Origin scheme must be http or https")
	}
	if origin.Host == "" {
		return errors.New("Origin must carry a host")
	}
	if origin.Path != "" && origin.Path != "/" {
		return errors.New("Origin must not carry a path")
	}

	// Token
	if strings.TrimSpace(c.Token.MetaName) == "" {
		return errors.New("Token MetaName must be set")
	}
	if strings.TrimSpace(c.Token.HeaderName) == "" {
		return errors.New("Token HeaderName must be set")
	}

	// Auth
	if strings.TrimSpace(c.Auth.LoginPath) == "" {
		return errors.New("Auth LoginPath must be set")
	}
	if !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return errors.New("Auth LoginPath must be absolute")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("Auth TokenTTL must be > 0")
	}

	// CSRF
	switch c.CSRF.Strategy {
	case StrategyOpaque, StrategySigned:
	default:
		return errors.New("unsupported CSRF strategy")
	}
	if c.CSRF.TTL <= 0 {
		return errors.New("CSRF TTL must be > 0")
	}
	if c.CSRF.Strategy == StrategySigned && len(c.Auth.Secret) == 0 {
		return errors.New("signed CSRF strategy requires Auth Secret")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}
