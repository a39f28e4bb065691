package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/interntrack/internal/flagx"
	"github.com/dmitrijs2005/interntrack/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave
// the corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	APITimeout          timex.Duration `json:"api_timeout"`
	AuthURL             string         `json:"auth_url"`
	AuthAnonKey         string         `json:"auth_anon_key"`
	RecoveryRedirectURL string         `json:"recovery_redirect_url"`
	DatabaseDSN         string         `json:"database_dsn"`
	StateFile           string         `json:"state_file"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3PublicURL         string         `json:"s3_public_url"`
	RateLimitMax        int            `json:"rate_limit_max"`
	RateLimitWindow     timex.Duration `json:"rate_limit_window"`
	DebounceDelay       timex.Duration `json:"debounce_delay"`
	ErrorTTL            timex.Duration `json:"error_ttl"`
	LogLevel            string         `json:"log_level"`
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

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.AuthURL, jc.AuthURL)
	setString(&cfg.AuthAnonKey, jc.AuthAnonKey)
	setString(&cfg.RecoveryRedirectURL, jc.RecoveryRedirectURL)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.StateFile, jc.StateFile)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3PublicURL, jc.S3PublicURL)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.APITimeout.Duration > 0 {
		cfg.APITimeout = jc.APITimeout.Duration
	}
	if jc.RateLimitMax > 0 {
		cfg.RateLimitMax = jc.RateLimitMax
	}
	if jc.RateLimitWindow.Duration > 0 {
		cfg.RateLimitWindow = jc.RateLimitWindow.Duration
	}
	if jc.DebounceDelay.Duration > 0 {
		cfg.DebounceDelay = jc.DebounceDelay.Duration
	}
	if jc.ErrorTTL.Duration > 0 {
		cfg.ErrorTTL = jc.ErrorTTL.Duration
	}
}
