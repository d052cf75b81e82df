package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"http_addr":                      "www.example:8080",
		"grpc_addr":                      "www.example:9000",
		"database_driver":                "pgx",
		"database_dsn":                   "postgres://survey",
		"secret_key":                     "my_secret_key",
		"session_key":                    "my_session_key",
		"access_token_validity_duration": "1m",
		"reset_code_validity_duration":   float64(3 * time.Minute),
		"survey_variant":                 "material",
		"log_level":                      "warn",
		"auth_rate_per_minute":           12,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, &Config{
			HTTPAddr:                    "www.example:8080",
			GRPCAddr:                    "www.example:9000",
			DatabaseDriver:              "pgx",
			DatabaseDSN:                 "postgres://survey",
			SecretKey:                   "my_secret_key",
			SessionKey:                  "my_session_key",
			AccessTokenValidityDuration: time.Minute,
			ResetCodeValidityDuration:   3 * time.Minute,
			SurveyVariant:               "material",
			LogLevel:                    "warn",
			AuthRatePerMinute:           12,
		}, cfg)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"database_dsn": "other.db"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := defaultConfig()
		parseJson(cfg)

		want := defaultConfig()
		want.DatabaseDSN = "other.db"
		assert.Equal(t, want, cfg)
	})

	t.Run("no file requested", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaultConfig()
		parseJson(cfg)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
