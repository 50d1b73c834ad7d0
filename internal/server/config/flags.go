package config

import (
	"flag"
	"os"
	"time"

	"github.com/cardsmith/cardsmith/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty for in-memory storage)
//	-s string   JWT HMAC secret key
//	-k string   Anthropic API key
//	-m string   model identifier for flashcard generation
//	-t int      provider call timeout, seconds
//	-o int      overall HTTP request timeout, seconds
//	-w int      extraction chunk size, words
//	-r int      provider retry attempts
//	-i int      first retry delay, seconds
//	-n int      maximum cards requested per chunk
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in seconds and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-m", "-t", "-o", "-w", "-r", "-i", "-n", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AnthropicAPIKey, "k", config.AnthropicAPIKey, "Anthropic API key")
	fs.StringVar(&config.Model, "m", config.Model, "model identifier")

	callTimeout := fs.Int("t", int(config.CallTimeout.Seconds()), "call_timeout (in seconds)")
	requestTimeout := fs.Int("o", int(config.RequestTimeout.Seconds()), "request_timeout (in seconds)")
	retryBaseDelay := fs.Int("i", int(config.RetryBaseDelay.Seconds()), "retry_base_delay (in seconds)")

	fs.IntVar(&config.ChunkSize, "w", config.ChunkSize, "chunk size (in words)")
	fs.IntVar(&config.MaxRetries, "r", config.MaxRetries, "provider retry attempts")
	fs.IntVar(&config.MaxCards, "n", config.MaxCards, "maximum cards per chunk")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CallTimeout = time.Duration(*callTimeout) * time.Second
	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	config.RetryBaseDelay = time.Duration(*retryBaseDelay) * time.Second
}
