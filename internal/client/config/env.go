package config

import "github.com/dmitrijs2005/interntrack/internal/envx"

// parseEnv overlays endpoints and secrets from the environment.
func parseEnv(cfg *Config) {
	cfg.APIBaseURL = envx.String("INTERNTRACK_API_URL", cfg.APIBaseURL)
	cfg.AuthURL = envx.String("INTERNTRACK_AUTH_URL", cfg.AuthURL)
	cfg.AuthAnonKey = envx.String("INTERNTRACK_AUTH_ANON_KEY", cfg.AuthAnonKey)
	cfg.DatabaseDSN = envx.String("INTERNTRACK_DATABASE_DSN", cfg.DatabaseDSN)
	cfg.S3AccessKey = envx.String("INTERNTRACK_S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = envx.String("INTERNTRACK_S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.APITimeout = envx.Duration("INTERNTRACK_API_TIMEOUT", cfg.APITimeout)
	cfg.RateLimitMax = envx.Int("INTERNTRACK_RATE_LIMIT_MAX", cfg.RateLimitMax)
}
