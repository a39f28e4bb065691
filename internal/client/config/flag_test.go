package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-u", "http://api", "-a", "http://auth", "-k", "anon", "-d", "dsn",
				"-f", "state.db", "-b", "bucket", "-e", "http://s3", "-l", "warn", "-x", "ignored"},
			expected: &Config{
				APIBaseURL:     "http://api",
				AuthURL:        "http://auth",
				AuthAnonKey:    "anon",
				DatabaseDSN:    "dsn",
				StateFile:      "state.db",
				S3Bucket:       "bucket",
				S3BaseEndpoint: "http://s3",
				LogLevel:       "warn",
			},
		},
		{name: "flag without value", args: []string{"cmd", "-u"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
