package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables take precedence over it.
//
// Recognized variables:
//
//	CARDSMITH_ADDR            HTTP bind address
//	CARDSMITH_DATABASE_DSN    PostgreSQL DSN
//	CARDSMITH_SECRET_KEY      JWT HMAC secret
//	ANTHROPIC_API_KEY         flashcard generation provider key
//	CARDSMITH_MODEL           model identifier
//	CARDSMITH_CALL_TIMEOUT       per-call timeout ("30s")
//	CARDSMITH_REQUEST_TIMEOUT    overall HTTP request timeout ("5m")
//	CARDSMITH_CHUNK_SIZE         extraction chunk size, words
//	CARDSMITH_MAX_RETRIES        provider retry attempts
//	CARDSMITH_RETRY_BASE_DELAY   first retry delay ("2s")
//	CARDSMITH_MAX_CARDS          maximum cards per chunk
//	CARDSMITH_S3_USER         S3 root user
//	CARDSMITH_S3_PASSWORD     S3 root password
//	CARDSMITH_S3_BUCKET       S3 bucket name
//	CARDSMITH_S3_REGION       S3 region
//	CARDSMITH_S3_ENDPOINT     S3 base endpoint
func parseEnv(config *Config) {
	// Missing .env is fine; godotenv never overrides existing env vars.
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("CARDSMITH_ADDR", &config.EndpointAddrHTTP)
	setString("CARDSMITH_DATABASE_DSN", &config.DatabaseDSN)
	setString("CARDSMITH_SECRET_KEY", &config.SecretKey)
	setString("ANTHROPIC_API_KEY", &config.AnthropicAPIKey)
	setString("CARDSMITH_MODEL", &config.Model)

	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setDuration("CARDSMITH_CALL_TIMEOUT", &config.CallTimeout)
	setDuration("CARDSMITH_REQUEST_TIMEOUT", &config.RequestTimeout)
	setDuration("CARDSMITH_RETRY_BASE_DELAY", &config.RetryBaseDelay)

	setInt("CARDSMITH_CHUNK_SIZE", &config.ChunkSize)
	setInt("CARDSMITH_MAX_RETRIES", &config.MaxRetries)
	setInt("CARDSMITH_MAX_CARDS", &config.MaxCards)

	setString("CARDSMITH_S3_USER", &config.S3RootUser)
	setString("CARDSMITH_S3_PASSWORD", &config.S3RootPassword)
	setString("CARDSMITH_S3_BUCKET", &config.S3Bucket)
	setString("CARDSMITH_S3_REGION", &config.S3Region)
	setString("CARDSMITH_S3_ENDPOINT", &config.S3BaseEndpoint)
}
