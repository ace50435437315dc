package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	LogDir      string

	// Storage
	Storage     string // "postgres" or "memory"
	DatabaseURL string // Explicit DATABASE_URL or composed from DB_* parts
	DBMaxConns  int32
	AutoMigrate bool
	RedisURL    string // Optional; enables the shared login limiter

	// Session tokens
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	SessionTTL  time.Duration

	// Request handling
	TrustProxyHeaders bool
	APIRateLimitRPS   float64
	APIRateLimitBurst int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		LogDir:      getEnv("LOG_DIR", ""),

		Storage:     strings.ToLower(getEnv("STORAGE", "postgres")),
		DatabaseURL: getDatabaseURL(),
		DBMaxConns:  int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		AutoMigrate: getEnvAsBool("AUTO_MIGRATE", env == "dev"),
		RedisURL:    getEnv("REDIS_URL", ""),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "allmanager"),
		JWTAudience: getEnv("JWT_AUDIENCE", "allmanager-app"),
		SessionTTL:  getEnvAsDuration("SESSION_TTL", SessionTTL),

		TrustProxyHeaders: getEnvAsBool("TRUST_PROXY_HEADERS", false),
		APIRateLimitRPS:   getEnvAsFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst: getEnvAsInt("API_RATE_LIMIT_BURST", 40),
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment != "dev" && len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes outside dev", MinJWTSecretLength)
	}
	switch c.Storage {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST/DB_USER/DB_NAME is required")
		}
	case "memory":
		if c.Environment == "prod" {
			return fmt.Errorf("STORAGE=memory is not allowed in prod")
		}
	default:
		return fmt.Errorf("STORAGE must be postgres or memory, got %q", c.Storage)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.APIRateLimitRPS < 0 || c.APIRateLimitBurst < 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS and API_RATE_LIMIT_BURST must not be negative")
	}
	return nil
}

// IsProduction reports whether the server runs in the prod environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getDatabaseURL returns DATABASE_URL, or a URL composed from the DB_* parts.
func getDatabaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	name := os.Getenv("DB_NAME")
	if host == "" || user == "" || name == "" {
		return ""
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, os.Getenv("DB_PASSWORD")),
		Host:     host + ":" + getEnv("DB_PORT", "5432"),
		Path:     "/" + name,
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
