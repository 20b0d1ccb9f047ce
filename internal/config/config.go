// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/diewo77/go-pos/validation"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	App    AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StoreConfig addresses the workbook. DSN is the credential for the SQL
// database that holds the worksheets; Driver is "sqlite" or "postgres".
type StoreConfig struct {
	SpreadsheetID string
	DSN           string
	Driver        string
	CacheTTL      int // seconds
	Debug         bool
}

// AuthConfig holds the shared password. When both fields are empty the UI is open.
type AuthConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev          bool
	Migrations   bool
	Timezone     string
	BusinessName string
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			SpreadsheetID: strings.TrimSpace(os.Getenv("SPREADSHEET_ID")),
			DSN:           strings.TrimSpace(os.Getenv("STORE_DSN")),
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			CacheTTL:      getEnvInt("CACHE_TTL", 30),
			Debug:         getEnvBool("DB_DEBUG", false),
		},
		Auth: AuthConfig{
			Password:      os.Getenv("APP_PASSWORD"),
			PasswordHash:  os.Getenv("APP_PASSWORD_HASH"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},
		App: AppConfig{
			Dev:          getEnvBool("DEV", false),
			Migrations:   getEnvBool("MIGRATIONS", false),
			Timezone:     getEnv("APP_TIMEZONE", "Africa/Cairo"),
			BusinessName: getEnv("BUSINESS_NAME", "My Shop"),
		},
	}
}

// MinSessionSecret is the shortest SESSION_SECRET accepted when a password is set.
const MinSessionSecret = 32

// ErrInvalid wraps every configuration problem; startup must halt on it.
var ErrInvalid = errors.New("invalid configuration")

// Validate reports missing or out-of-range settings.
func (c *Config) Validate() error {
	v := validation.Violations{}
	validation.Required("SPREADSHEET_ID", c.Store.SpreadsheetID, v)
	validation.Required("STORE_DSN", c.Store.DSN, v)
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		v["STORE_DRIVER"] = "invalid"
	}
	validation.RangeFloat("CACHE_TTL", float64(c.Store.CacheTTL), 10, 120, v)
	validation.PositiveFloat("SERVER_READ_TIMEOUT", float64(c.Server.ReadTimeout), v)
	validation.PositiveFloat("SERVER_WRITE_TIMEOUT", float64(c.Server.WriteTimeout), v)
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		v["APP_TIMEZONE"] = "invalid"
	}
	if c.Auth.PasswordProtected() {
		switch {
		case c.Auth.SessionSecret == "":
			v["SESSION_SECRET"] = "required"
		case len(c.Auth.SessionSecret) < MinSessionSecret:
			v["SESSION_SECRET"] = "too_short"
		}
	}
	if v.Empty() {
		return nil
	}
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+" "+v[f])
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, ", "))
}

// Location returns the business time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TTL returns the read cache lifetime.
func (s StoreConfig) TTL() time.Duration { return time.Duration(s.CacheTTL) * time.Second }

// PasswordProtected reports whether a shared password is configured.
func (a AuthConfig) PasswordProtected() bool { return a.Password != "" || a.PasswordHash != "" }

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	value = strings.ToLower(value)
	return value == "1" || value == "true" || value == "yes"
}
