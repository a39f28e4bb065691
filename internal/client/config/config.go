package config

import "time"

// Config holds runtime settings for the interntrack CLI.
type Config struct {
	APIBaseURL string
	APITimeout time.Duration

	AuthURL             string
	AuthAnonKey         string
	RecoveryRedirectURL string

	DatabaseDSN string
	StateFile   string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	// S3PublicURL is the origin public avatar links are built from.
	// Empty means S3BaseEndpoint.
	S3PublicURL string

	RateLimitMax    int
	RateLimitWindow time.Duration
	DebounceDelay   time.Duration
	ErrorTTL        time.Duration

	LogLevel string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.APITimeout = 10 * time.Second
	c.AuthURL = "http://127.0.0.1:9999"
	c.RecoveryRedirectURL = "interntrack://update-password"
	c.StateFile = "interntrack.db"
	c.S3Bucket = "avatars"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.RateLimitMax = 10
	c.RateLimitWindow = time.Minute
	c.DebounceDelay = 500 * time.Millisecond
	c.ErrorTTL = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, JSON, environment and flags,
// in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
