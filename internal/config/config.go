// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use ("sqlite", "postgres" or "mysql").
	DBDriver string
	// DBConnectionString is the connection string for the database, or the file path for sqlite.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration
	// DBAutoMigrate applies the embedded schema migrations when the database is opened.
	DBAutoMigrate bool

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// LogOutput selects the log stream ("stdout" or "stderr").
	LogOutput string

	// MasterKeyFile is an explicit path to the master key file. When empty the
	// file is searched for relative to MasterKeyBaseDir.
	MasterKeyFile string
	// MasterKeyBaseDir is the directory the master key search starts from.
	MasterKeyBaseDir string

	// KMSProvider is the KMS provider that wraps the master key (e.g., "localsecrets", "gcpkms").
	KMSProvider string
	// KMSKeyURI is the URI of the KMS key that wraps the master key.
	KMSKeyURI string

	// CredentialAlgorithm is the AEAD algorithm used to seal the stored credential.
	CredentialAlgorithm string

	// UpstreamBaseURL is the base address of the upstream API.
	UpstreamBaseURL string
	// UpstreamAPIVersion is the versioned root segment prefixed to every upstream path.
	UpstreamAPIVersion string
	// UpstreamTimeout bounds a single upstream attempt.
	UpstreamTimeout time.Duration
	// UpstreamRequestTimeout bounds a whole gateway call including retries and backoff.
	UpstreamRequestTimeout time.Duration
	// UpstreamMaxRetries is the number of additional attempts after the first one.
	UpstreamMaxRetries int
	// UpstreamRetryDelay is the linear backoff unit; retry N waits N times this value.
	UpstreamRetryDelay time.Duration
	// UpstreamRateLimitPerSec is the outbound request rate towards the upstream API.
	UpstreamRateLimitPerSec float64
	// UpstreamRateLimitBurst is the outbound burst size.
	UpstreamRateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort: env.GetInt("SERVER_PORT", 5123),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", filepath.Join("AppData", "app.db")),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),
		DBAutoMigrate:        env.GetBool("DB_AUTO_MIGRATE", true),

		// Logging
		LogLevel:  env.GetString("LOG_LEVEL", "info"),
		LogOutput: env.GetString("LOG_OUTPUT", "stdout"),

		// Master key
		MasterKeyFile:    env.GetString("MASTER_KEY_FILE", ""),
		MasterKeyBaseDir: env.GetString("MASTER_KEY_BASE_DIR", ""),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Credential store
		CredentialAlgorithm: env.GetString("CREDENTIAL_ALGORITHM", "aes-gcm"),

		// Upstream gateway
		UpstreamBaseURL:         env.GetString("UPSTREAM_BASE_URL", "https://api.guildwars2.com/"),
		UpstreamAPIVersion:      env.GetString("UPSTREAM_API_VERSION", "v2"),
		UpstreamTimeout:         env.GetDuration("UPSTREAM_TIMEOUT_SECONDS", 10, time.Second),
		UpstreamRequestTimeout:  env.GetDuration("UPSTREAM_REQUEST_TIMEOUT_SECONDS", 60, time.Second),
		UpstreamMaxRetries:      env.GetInt("UPSTREAM_MAX_RETRIES", 3),
		UpstreamRetryDelay:      env.GetDuration("UPSTREAM_RETRY_DELAY_MS", 200, time.Millisecond),
		UpstreamRateLimitPerSec: env.GetFloat64("UPSTREAM_RATE_LIMIT_PER_SEC", 10.0),
		UpstreamRateLimitBurst:  env.GetInt("UPSTREAM_RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "gw2proxy"),
		MetricsPort:      env.GetInt("METRICS_PORT", 5124),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
