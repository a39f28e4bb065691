package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/interntrack/internal/flagx"
)

// parseFlags overlays cfg with the flags listed in the package doc. Unknown
// flags are filtered out first; a malformed known flag panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-a", "-k", "-d", "-f", "-b", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "primary API base URL")
	fs.StringVar(&cfg.AuthURL, "a", cfg.AuthURL, "auth service URL")
	fs.StringVar(&cfg.AuthAnonKey, "k", cfg.AuthAnonKey, "auth service anon key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "backing store DSN")
	fs.StringVar(&cfg.StateFile, "f", cfg.StateFile, "local state file")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "avatar bucket")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
