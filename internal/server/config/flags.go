package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   identifier HMAC secret key
//	-t int      identifier validity, days
//	-k int      uid cookie lifetime, days
//	-e string   environment name reported by /ping
//	-l string   log level
//
// Duration flags are accepted as integers in days and then converted to
// time.Duration values.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validityDays := fs.Int("t", int(config.TokenValidityDuration/(24*time.Hour)), "token validity (in days)")
	fs.IntVar(&config.CookieDays, "k", config.CookieDays, "cookie lifetime (in days)")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := flagx.ParseOwn(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*validityDays) * 24 * time.Hour
}
