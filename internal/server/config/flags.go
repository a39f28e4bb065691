package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/interntrack/internal/flagx"
)

// parseFlags overlays cfg with the flags listed in the package doc. Unknown
// flags are filtered out first; a malformed known flag panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT secret")
	fs.BoolVar(&cfg.RunMigrations, "m", cfg.RunMigrations, "apply schema migrations on start")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
