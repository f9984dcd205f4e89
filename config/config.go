package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Store     StoreConfig
	Upload    UploadConfig
	APIPrefix string
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Admin     AdminConfig
}

// AdminConfig names the account promoted to admin at startup. Empty Email
// disables the bootstrap.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// StoreConfig selects the persistence backend. Driver is one of
// mongo, postgres, sqlite or memory.
type StoreConfig struct {
	Driver   string
	URI      string
	Database string
}

type UploadConfig struct {
	Dir             string
	PublicPath      string
	BackupDir       string
	BackupHour      int
	BackupRetention time.Duration
}

var validDrivers = map[string]bool{"mongo": true, "postgres": true, "sqlite": true, "memory": true}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
			Admin: AdminConfig{
				Name:     getEnv("ADMIN_NAME", "Admin"),
				Email:    os.Getenv("ADMIN_EMAIL"),
				Password: os.Getenv("ADMIN_PASSWORD"),
			},
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
			URI:      os.Getenv("CONNECTION_STRING"),
			Database: getEnv("DB_NAME", "oshop-data"),
		},
		Upload: UploadConfig{
			Dir:             getEnv("UPLOAD_DIR", "public/uploads"),
			PublicPath:      strings.TrimSuffix(getEnv("UPLOAD_PUBLIC_PATH", "/public/uploads"), "/"),
			BackupDir:       os.Getenv("UPLOAD_BACKUP_DIR"),
			BackupHour:      getEnvAsInt("UPLOAD_BACKUP_HOUR", 2),
			BackupRetention: getEnvAsDuration("UPLOAD_BACKUP_RETENTION", 4*24*time.Hour),
		},
		APIPrefix: strings.TrimSuffix(getEnv("API_URL", "/api/v1"), "/"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.Store.Driver == "postgres" && cfg.Store.URI == "" {
		cfg.Store.URI = postgresDSNFromParts()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.Auth.Admin.Email != "" && (len(c.Auth.Admin.Password) < 6 || len(c.Auth.Admin.Password) > 72) {
		return fmt.Errorf("ADMIN_PASSWORD must be 6 to 72 bytes when ADMIN_EMAIL is set")
	}

	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be mongo, postgres, sqlite, or memory)", c.Store.Driver)
	}

	if c.Store.Driver != "memory" && c.Store.URI == "" {
		return fmt.Errorf("CONNECTION_STRING is required for store driver %s", c.Store.Driver)
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_URL must start with '/': %q", c.APIPrefix)
	}

	if !strings.HasPrefix(c.Upload.PublicPath, "/") {
		return fmt.Errorf("UPLOAD_PUBLIC_PATH must start with '/': %q", c.Upload.PublicPath)
	}

	if c.Upload.BackupHour < 0 || c.Upload.BackupHour > 23 {
		return fmt.Errorf("UPLOAD_BACKUP_HOUR must be between 0 and 23")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// postgresDSNFromParts builds a DSN from the discrete DB_* variables.
func postgresDSNFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "oshop-data"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("90s") or bare seconds ("90").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
