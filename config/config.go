// Package config provides configuration management for the catalog API.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
// In Nest.js, the `@nestjs/config` module serves a similar purpose, often integrating
// with `.env` files and providing a `ConfigService`.
package config

import (
	"fmt"
	// `os` package provides operating system functionalities, like reading environment variables.
	"os"
	"strconv"
	"strings"
	"time"

	// `go-multierror` accumulates every problem so the operator sees all of them at once.
	"github.com/hashicorp/go-multierror"

	"github.com/user/carcatalog-go/apperror"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxSize  int
}

// DSN renders the connection string understood by both pgx and golang-migrate.
func (c *PoolConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	SecretKey      string        // Signs session and email-verification tokens
	ResetSecretKey string        // Signs password-reset tokens only
	SessionTTL     time.Duration // Lifetime of login tokens, 0 = never expires
	VerifyTTL      time.Duration // Lifetime of email-verification tokens, 0 = never expires
	ResetTTL       time.Duration // Lifetime of password-reset tokens
	BcryptCost     int
}

// MailConfig holds the outbound SMTP settings.
// When Host is empty the application logs mails instead of sending them.
type MailConfig struct {
	From     string
	Host     string
	Port     int
	Username string
	Password string
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port    string // Port for the HTTP server
	BaseURL string // Public URL used to build links in emails
}

// QueryConfig bounds list queries.
type QueryConfig struct {
	MaxLimit int // Largest accepted `limit`, 0 disables the cap
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB       *PoolConfig
	Auth     *AuthConfig
	Mail     *MailConfig
	Server   *ServerConfig
	Query    *QueryConfig
	LogLevel string
}

// loader wraps the environment lookups and collects every problem it meets.
type loader struct {
	errs *multierror.Error
}

func (l *loader) fail(format string, args ...any) {
	l.errs = multierror.Append(l.errs, fmt.Errorf(format, args...))
}

// required gets a required environment variable.
// Records an error if the variable is not set.
func (l *loader) required(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		l.fail("missing required environment variable: %s", key)
		return ""
	}
	return value
}

// optional gets an optional environment variable with a default string value.
func (l *loader) optional(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// optionalInt gets an optional environment variable parsed as an int.
func (l *loader) optionalInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		l.fail("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err)
		return defaultValue
	}
	return valueInt
}

// optionalDuration gets an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "1h30s"; a bare "0" disables expiry.
func (l *loader) optionalDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		l.fail("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err)
		return defaultValue
	}
	if valueDuration < 0 {
		l.fail("invalid value for %s: duration must not be negative", key)
		return defaultValue
	}
	return valueDuration
}

// poolSize validates the pool size and clamps it between 5 and 100.
func (l *loader) poolSize(key string, defaultValue int) int {
	size := l.optionalInt(key, defaultValue)
	if size < 5 {
		l.fail("pool size for %s (%d) is less than minimum 5", key, size)
		return 5
	}
	if size > 100 {
		l.fail("pool size for %s (%d) is greater than maximum 100", key, size)
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	l := &loader{}

	// Database Configuration
	db := &PoolConfig{
		User:     l.required("DB_USER"),
		Password: l.required("DB_PASSWORD"),
		DBName:   l.required("DB_NAME"),
		Host:     l.optional("DB_HOST", "localhost"),
		Port:     l.optionalInt("DB_PORT", 5432),
		SSLMode:  l.optional("DB_SSLMODE", "disable"),
		MaxSize:  l.poolSize("DB_POOL_SIZE", 10),
	}

	// Auth Configuration
	auth := &AuthConfig{
		SecretKey:      l.required("SECRET_KEY"),
		ResetSecretKey: l.required("SECRET_KEY_RP"),
		SessionTTL:     l.optionalDuration("JWT_SESSION_TTL", 24*time.Hour),
		VerifyTTL:      l.optionalDuration("JWT_VERIFY_TTL", 72*time.Hour),
		ResetTTL:       l.optionalDuration("JWT_RESET_TTL", time.Hour),
		BcryptCost:     l.optionalInt("BCRYPT_COST", 10),
	}
	if auth.SecretKey != "" && auth.SecretKey == auth.ResetSecretKey {
		// The two token classes must not be forgeable with each other's key.
		l.fail("SECRET_KEY and SECRET_KEY_RP must be different")
	}
	if auth.ResetTTL == 0 {
		l.fail("JWT_RESET_TTL must be greater than zero")
	}
	if auth.BcryptCost < 4 || auth.BcryptCost > 31 {
		l.fail("BCRYPT_COST must be between 4 and 31, got %d", auth.BcryptCost)
	}

	// Mail Configuration
	mail := &MailConfig{
		From:     l.optional("EMAIL_SMTP", "no-reply@localhost"),
		Host:     l.optional("SMTP_HOST", ""),
		Port:     l.optionalInt("SMTP_PORT", 587),
		Username: l.optional("SMTP_USER", ""),
		Password: l.optional("SMTP_PASSWORD", ""),
	}

	// Server Configuration
	// Note: Server port is a string because it's used directly in the listen address (e.g., ":3000").
	port := l.optional("PORT", "3000")
	server := &ServerConfig{
		Port:    port,
		BaseURL: strings.TrimRight(l.optional("BASE_URL", "http://localhost:"+port), "/"),
	}

	query := &QueryConfig{MaxLimit: l.optionalInt("QUERY_MAX_LIMIT", 100)}
	if query.MaxLimit < 0 {
		l.fail("QUERY_MAX_LIMIT must not be negative")
	}

	// If any errors were collected during loading, return them as one error.
	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, apperror.NewConfigError("configuration errors", err)
	}

	return &AppConfig{
		DB:       db,
		Auth:     auth,
		Mail:     mail,
		Server:   server,
		Query:    query,
		LogLevel: l.optional("LOG_LEVEL", "info"),
	}, nil
}
