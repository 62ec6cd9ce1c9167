// Package config loads runtime configuration for the session client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: API_BASE_URL, VERSION, USER_AGENT, SESSION_DB,
//     BOOTSTRAP_TIMEOUT ("15s"), LOG_LEVEL.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-u string   user agent
//	-d string   session database path
//	-t int      bootstrap timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "version": "1.0.0",
//	  "user_agent": "my-cli/1.0",
//	  "database_path": "session.db",
//	  "bootstrap_timeout": "15s",
//	  "log_level": "debug"
//	}
package config
