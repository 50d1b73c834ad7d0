// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the Cardsmith server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty means in-memory storage.
//   - SecretKey: HMAC secret for verifying JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of issued access tokens.
//   - AnthropicAPIKey / Model: flashcard generation provider settings.
//   - CallTimeout: per-attempt deadline for a single provider call.
//   - RequestTimeout: overall deadline for an HTTP request.
//   - ChunkSize: extraction chunk size, in words.
//   - MaxRetries / RetryBaseDelay: provider retry policy.
//   - MaxCards: cap on cards requested per chunk.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. Empty
//     bucket disables document archival.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	AnthropicAPIKey             string
	Model                       string
	CallTimeout                 time.Duration
	RequestTimeout              time.Duration
	ChunkSize                   int
	MaxRetries                  int
	RetryBaseDelay              time.Duration
	MaxCards                    int
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.AnthropicAPIKey = ""
	c.Model = "claude-3-5-haiku-latest"
	c.CallTimeout = 30 * time.Second
	c.RequestTimeout = 5 * time.Minute
	c.ChunkSize = 1000
	c.MaxRetries = 3
	c.RetryBaseDelay = 2 * time.Second
	c.MaxCards = 10
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
