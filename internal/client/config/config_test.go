package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.APITimeout)
	assert.Equal(t, 10, c.RateLimitMax)
	assert.Equal(t, time.Minute, c.RateLimitWindow)
	assert.Equal(t, 500*time.Millisecond, c.DebounceDelay)
	assert.Equal(t, 10*time.Second, c.ErrorTTL)
	assert.Equal(t, "avatars", c.S3Bucket)
	assert.Equal(t, "interntrack.db", c.StateFile)
}

func TestLoadConfig_EnvBetweenJSONAndFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "http://from-json",
		"database_dsn": "postgres://json",
	})
	t.Setenv("INTERNTRACK_API_URL", "http://from-env")
	t.Setenv("INTERNTRACK_DATABASE_DSN", "")

	os.Args = []string{"bin", "-c", path, "-l", "debug"}
	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://from-env", cfg.APIBaseURL)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN, "empty env must not clear JSON value")
	assert.Equal(t, "debug", cfg.LogLevel)

	os.Args = []string{"bin", "-c", path, "-u", "http://from-flag"}
	assert.Equal(t, "http://from-flag", LoadConfig().APIBaseURL)
}

func TestParseEnv_MissingAPIURLKeepsDefault(t *testing.T) {
	t.Setenv("INTERNTRACK_API_URL", "")
	var c Config
	c.LoadDefaults()
	parseEnv(&c)
	assert.Empty(t, c.APIBaseURL)
}
