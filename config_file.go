package dashkit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with the primitive field types a YAML config
// file carries. Durations are Go duration strings ("30m", "168h").
type fileConfig struct {
	Origin string `yaml:"origin"`

	Token struct {
		MetaName        string `yaml:"meta_name"`
		HeaderName      string `yaml:"header_name"`
		RequestIDHeader string `yaml:"request_id_header"`
	} `yaml:"token"`

	Auth struct {
		LoginPath  string `yaml:"login_path"`
		CookieName string `yaml:"cookie_name"`
		TokenTTL   string `yaml:"token_ttl"`
		Secret     string `yaml:"secret"`
	} `yaml:"auth"`

	Alerts struct {
		ForbiddenMessage   string `yaml:"forbidden_message"`
		ServerErrorMessage string `yaml:"server_error_message"`
	} `yaml:"alerts"`

	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	CSRF struct {
		Strategy    string `yaml:"strategy"`
		TTL         string `yaml:"ttl"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"csrf"`

	Audit struct {
		Enabled    bool `yaml:"enabled"`
		BufferSize int  `yaml:"buffer_size"`
		DropIfFull bool `yaml:"drop_if_full"`
	} `yaml:"audit"`

	Metrics struct {
		Enabled                 bool `yaml:"enabled"`
		EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
	} `yaml:"metrics"`
}

// LoadConfig reads a YAML configuration file and overlays it on
// [DefaultConfig]. Fields absent from the file keep their defaults; the
// result is validated before being returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := defaultConfig()

	if fc.Origin != "" {
		cfg.Origin = fc.Origin
	}
	if fc.Token.MetaName != "" {
		cfg.Token.MetaName = fc.Token.MetaName
	}
	if fc.Token.HeaderName != "" {
		cfg.Token.HeaderName = fc.Token.HeaderName
	}
	if fc.Token.RequestIDHeader != "" {
		cfg.Token.RequestIDHeader = fc.Token.RequestIDHeader
	}
	if fc.Auth.LoginPath != "" {
		cfg.Auth.LoginPath = fc.Auth.LoginPath
	}
	if fc.Auth.CookieName != "" {
		cfg.Auth.CookieName = fc.Auth.CookieName
	}
	if fc.Auth.TokenTTL != "" {
		ttl, err := time.ParseDuration(fc.Auth.TokenTTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse auth token_ttl: %w", err)
		}
		cfg.Auth.TokenTTL = ttl
	}
	if fc.Auth.Secret != "" {
		cfg.Auth.Secret = []byte(fc.Auth.Secret)
	}
	if fc.Alerts.ForbiddenMessage != "" {
		cfg.Alerts.ForbiddenMessage = fc.Alerts.ForbiddenMessage
	}
	if fc.Alerts.ServerErrorMessage != "" {
		cfg.Alerts.ServerErrorMessage = fc.Alerts.ServerErrorMessage
	}
	if fc.Export.Dir != "" {
		cfg.Export.Dir = fc.Export.Dir
	}
	switch fc.CSRF.Strategy {
	case "":
	case "opaque":
		cfg.CSRF.Strategy = StrategyOpaque
	case "signed":
		cfg.CSRF.Strategy = StrategySigned
	default:
		return Config{}, fmt.Errorf("parse config: unknown csrf strategy %q", fc.CSRF.Strategy)
	}
	if fc.CSRF.TTL != "" {
		ttl, err := time.ParseDuration(fc.CSRF.TTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse csrf ttl: %w", err)
		}
		cfg.CSRF.TTL = ttl
	}
	if fc.CSRF.RedisPrefix != "" {
		cfg.CSRF.RedisPrefix = fc.CSRF.RedisPrefix
	}
	cfg.Audit.Enabled = fc.Audit.Enabled
	if fc.Audit.BufferSize > 0 {
		cfg.Audit.BufferSize = fc.Audit.BufferSize
	}
	if fc.Audit.Enabled {
		cfg.Audit.DropIfFull = fc.Audit.DropIfFull
	}
	cfg.Metrics.Enabled = fc.Metrics.Enabled
	cfg.Metrics.EnableLatencyHistograms = fc.Metrics.EnableLatencyHistograms

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
