package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	RedisHost       string
	RedisPort       string
	SessionStore    string
	SessionSecret   string
	GinMode         string
	LogLevel        string
	ReportTimezone  string
	AuthzPolicyFile string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBDriver:        driver,
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", defaultPort),
		DBUser:          getEnv("DB_USER", "fielduser"),
		DBPassword:      getEnv("DB_PASSWORD", "fieldpassword"),
		DBName:          getEnv("DB_NAME", "field_reports"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		SessionStore:    strings.ToLower(getEnv("SESSION_STORE", "redis")),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ReportTimezone:  getEnv("REPORT_TIMEZONE", "UTC"),
		AuthzPolicyFile: getEnv("AUTHZ_POLICY_FILE", ""),
	}
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "redis", "cookie":
	default:
		return fmt.Errorf("SESSION_STORE must be redis or cookie, got %q", c.SessionStore)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.IsProduction() && c.SessionSecret == "default-secret-key-change-me" {
		return fmt.Errorf("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// Location returns the time zone "today" is computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
