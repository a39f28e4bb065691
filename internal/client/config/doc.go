// Package config loads runtime configuration for the interntrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config.
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags).
//
// Later sources override earlier ones.
//
// Supported flags
//
//	-u string   primary API base URL (empty disables the API path)
//	-a string   auth service URL
//	-k string   auth service anon key
//	-d string   backing store DSN (PostgreSQL)
//	-f string   local state file (SQLite)
//	-b string   avatar bucket
//	-e string   S3 base endpoint
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "auth_url": "https://project.supabase.co",
//	  "debounce_delay": "500ms",
//	  "error_ttl": "10s"
//	}
//
// # Environment
//
// INTERNTRACK_API_URL selects the primary API origin. Its absence is not an
// error: profile calls then go straight to the backing store.
package config
