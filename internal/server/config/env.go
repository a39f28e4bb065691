package config

import "github.com/dmitrijs2005/interntrack/internal/envx"

func parseEnv(cfg *Config) {
	cfg.ListenAddr = envx.String("INTERNTRACK_LISTEN_ADDR", cfg.ListenAddr)
	cfg.DatabaseDSN = envx.String("INTERNTRACK_DATABASE_DSN", cfg.DatabaseDSN)
	cfg.JWTSecret = envx.String("INTERNTRACK_JWT_SECRET", cfg.JWTSecret)
	cfg.AuthURL = envx.String("INTERNTRACK_AUTH_URL", cfg.AuthURL)
	cfg.ServiceRoleKey = envx.String("INTERNTRACK_SERVICE_ROLE_KEY", cfg.ServiceRoleKey)
	cfg.RunMigrations = envx.Bool("INTERNTRACK_MIGRATE", cfg.RunMigrations)
}
