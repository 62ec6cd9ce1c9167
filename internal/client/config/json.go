package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/anonsession/internal/flagx"
	"github.com/dmitrijs2005/anonsession/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	APIBaseURL       string          `json:"api_base_url"`
	Version          string          `json:"version"`
	UserAgent        string          `json:"user_agent"`
	DatabasePath     string          `json:"database_path"`
	BootstrapTimeout *timex.Duration `json:"bootstrap_timeout"`
	LogLevel         string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Without either flag nothing happens. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.Version, jc.Version)
	setIf(&cfg.UserAgent, jc.UserAgent)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.BootstrapTimeout != nil {
		cfg.BootstrapTimeout = jc.BootstrapTimeout.Duration
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
