// Package config loads process-wide settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset. Anything signed with it must
// never reach production.
const DevJWTSecret = "dev-insecure-secret-change"

// DefaultSuperadminPassword is the bootstrap password used when
// SUPERADMIN_PASSWORD is unset. It has to be rotated after the first start.
const DefaultSuperadminPassword = "admin123"

type Config struct {
	// HTTP server
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the client address is always the TCP peer.
	TrustedProxies []string

	// Database
	DBDriver      string
	DBDSN         string
	DBAutoMigrate bool

	// Auth
	JWTSecret          string
	TokenTTL           time.Duration
	SuperadminUsername string
	SuperadminPassword string
	LoginMaxAttempts   int
	LoginBlockDuration time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads ./.env (if present, without overriding variables that are
// already set) and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8081"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBDSN:         getEnv("DB_DSN", ""),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),

		JWTSecret:          getEnv("JWT_SECRET", DevJWTSecret),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		SuperadminUsername: getEnv("SUPERADMIN_USERNAME", "superadmin"),
		SuperadminPassword: getEnv("SUPERADMIN_PASSWORD", DefaultSuperadminPassword),
		LoginMaxAttempts:   getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginBlockDuration: getEnvDuration("LOGIN_BLOCK_DURATION", 15*time.Minute),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Sprintf("invalid TRUSTED_PROXIES entry '%s': must be an IP or CIDR", p))
			}
		}
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid DB_DRIVER '%s': must be postgres or sqlite", c.DBDriver))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		errs = append(errs, "DB_DSN is not set")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET cannot be empty")
	}
	if c.TokenTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid TOKEN_TTL %v: must be at least 1m", c.TokenTTL))
	}
	if strings.TrimSpace(c.SuperadminUsername) == "" {
		errs = append(errs, "SUPERADMIN_USERNAME cannot be empty")
	}
	if c.SuperadminPassword == "" {
		errs = append(errs, "SUPERADMIN_PASSWORD cannot be empty")
	}
	if c.LoginMaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("invalid LOGIN_MAX_ATTEMPTS %d: must be at least 1", c.LoginMaxAttempts))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid LOG_LEVEL '%s'", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid LOG_FORMAT '%s': must be text or json", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// UsesDevSecret is true when tokens are signed with the built-in fallback.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return defaultValue
	case "false", "0", "no":
		return false
	default:
		return true
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
