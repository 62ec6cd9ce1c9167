package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL
//	-u string   user agent sent when requesting an identifier
//	-d string   path of the local session database
//	-t int      bootstrap timeout in seconds
//	-l string   log level
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.UserAgent, "u", cfg.UserAgent, "user agent")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "session database path")
	timeout := fs.Int("t", int(cfg.BootstrapTimeout.Seconds()), "bootstrap timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := flagx.ParseOwn(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.BootstrapTimeout = time.Duration(*timeout) * time.Second
}
