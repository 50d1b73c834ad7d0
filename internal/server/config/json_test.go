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

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             "www.example:9000",
		"database_dsn":                   "postgres://cards",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "24h",
		"anthropic_api_key":              "api-key",
		"model":                          "model-x",
		"call_timeout":                   "45s",
		"request_timeout":                "2m",
		"chunk_size":                     800,
		"max_retries":                    4,
		"retry_base_delay":               "1s",
		"max_cards":                      8,
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://cards", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "api-key", cfg.AnthropicAPIKey)
		assert.Equal(t, "model-x", cfg.Model)
		assert.Equal(t, 45*time.Second, cfg.CallTimeout)
		assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
		assert.Equal(t, 800, cfg.ChunkSize)
		assert.Equal(t, 4, cfg.MaxRetries)
		assert.Equal(t, 1*time.Second, cfg.RetryBaseDelay)
		assert.Equal(t, 8, cfg.MaxCards)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDSN:      "postgres://cards",
			SecretKey:        "key",
			CallTimeout:      10 * time.Second,
			ChunkSize:        100,
			MaxCards:         3,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://cards", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 10*time.Second, cfg.CallTimeout)
		assert.Equal(t, 100, cfg.ChunkSize)
		assert.Equal(t, 3, cfg.MaxCards)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
