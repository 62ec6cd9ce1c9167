package config

import (
	"time"

	"github.com/dmitrijs2005/anonsession/internal/buildinfo"
)

// Config holds runtime settings for the session client.
//
// Units: BootstrapTimeout is a time.Duration (the -t flag takes seconds).
type Config struct {
	APIBaseURL       string        `env:"API_BASE_URL"`
	Version          string        `env:"VERSION"`
	UserAgent        string        `env:"USER_AGENT"`
	DatabasePath     string        `env:"SESSION_DB"`
	BootstrapTimeout time.Duration `env:"BOOTSTRAP_TIMEOUT"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.Version = buildinfo.Version
	c.UserAgent = ""
	c.DatabasePath = "session.db"
	c.BootstrapTimeout = 15 * time.Second
	c.LogLevel = "info"
}

// EffectiveUserAgent is UserAgent, or "anonsession-cli/<version>" when unset.
func (c *Config) EffectiveUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return "anonsession-cli/" + c.Version
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
