package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/anonsession/internal/flagx"
	"github.com/dmitrijs2005/anonsession/internal/timex"
)

// JsonConfig is the DTO read from the -c/-config file. Pointer fields tell
// "absent" from "zero"; absent values leave Config untouched.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	CookieDays            *int            `json:"cookie_days"`
	AdminPaths            []string        `json:"admin_paths"`
	Environment           string          `json:"environment"`
	AdoptUnknownTokens    *bool           `json:"adopt_unknown_tokens"`
	Version               string          `json:"version"`
	LogLevel              string          `json:"log_level"`
}

// parseJson loads configuration values from the file named by -c or
// -config. Without either flag nothing is loaded. Panics if the file cannot
// be read or is not valid JSON.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.Environment, c.Environment)
	setIf(&config.Version, c.Version)
	setIf(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CookieDays != nil {
		config.CookieDays = *c.CookieDays
	}
	if c.AdminPaths != nil {
		config.AdminPaths = c.AdminPaths
	}
	if c.AdoptUnknownTokens != nil {
		config.AdoptUnknownTokens = *c.AdoptUnknownTokens
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
