package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "oshop-data", cfg.Store.Database)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/public/uploads", cfg.Upload.PublicPath)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("CONNECTION_STRING", "mongodb://localhost:27017")
	t.Setenv("API_URL", "/api/v2/")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("READ_TIMEOUT", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_PostgresDSNFromParts(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("CONNECTION_STRING", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "shopdb")
	t.Setenv("DB_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db user=shop password=pw dbname=shopdb port=5432 sslmode=disable", cfg.Store.URI)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "3000"},
			Auth:      AuthConfig{JWTSecret: "x", TokenTTL: time.Hour},
			Store:     StoreConfig{Driver: "memory"},
			Upload:    UploadConfig{PublicPath: "/public/uploads", BackupHour: 2},
			APIPrefix: "/api/v1",
			LogLevel:  "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: true},
		{name: "mongo without uri", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: true},
		{name: "relative prefix", mutate: func(c *Config) { c.APIPrefix = "api" }, wantErr: true},
		{name: "bad backup hour", mutate: func(c *Config) { c.Upload.BackupHour = 24 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
		{name: "admin bootstrap", mutate: func(c *Config) { c.Auth.Admin = AdminConfig{Email: "root@example.com", Password: "secret1"} }},
		{name: "admin without password", mutate: func(c *Config) { c.Auth.Admin.Email = "root@example.com" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
