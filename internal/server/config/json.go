package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/interntrack/internal/flagx"
	"github.com/dmitrijs2005/interntrack/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// both "10s" and integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	JWTSecret       string         `json:"jwt_secret"`
	AuthURL         string         `json:"auth_url"`
	ServiceRoleKey  string         `json:"service_role_key"`
	RunMigrations   *bool          `json:"run_migrations"`
	SearchLimit     int            `json:"search_limit"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c/-config. It panics when
// the file cannot be read or parsed.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.JWTSecret, jc.JWTSecret)
	setString(&cfg.AuthURL, jc.AuthURL)
	setString(&cfg.ServiceRoleKey, jc.ServiceRoleKey)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RunMigrations != nil {
		cfg.RunMigrations = *jc.RunMigrations
	}
	if jc.SearchLimit > 0 {
		cfg.SearchLimit = jc.SearchLimit
	}
	if jc.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}
