package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays Config with the variables named in its env tags.
// TOKEN_VALIDITY takes a Go duration ("1440h"). Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
