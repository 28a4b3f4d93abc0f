package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")

	cfg, err := loadFrom(viper.New(), missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "social.db", cfg.DBPath)
	assert.Equal(t, 72, cfg.SessionTTLHours)
	assert.Equal(t, "minisocial_session", cfg.SessionCookie)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisHost)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", " MySQL ")
	t.Setenv("SESSION_TTL_HOURS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := loadFrom(viper.New(), missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 5, cfg.SessionTTLHours)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadFrom_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"SESSION_SECRET":"from-file","DB_PATH":"other.db","LOG_LEVEL":"DEBUG"}`), 0o600))

	cfg, err := loadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.SessionSecret)
	assert.Equal(t, "other.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := loadFrom(viper.New(), path)
	assert.Error(t, err)
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := loadFrom(viper.New(), missingFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate(t *testing.T) {
	valid := AppConfig{
		AppEnv:          "development",
		AppPort:         "8080",
		SessionSecret:   "short",
		SessionTTLHours: 1,
		DBDriver:        "sqlite",
		DBPath:          "social.db",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *AppConfig)
	}{
		{"missing port", func(c *AppConfig) { c.AppPort = "" }},
		{"missing secret", func(c *AppConfig) { c.SessionSecret = "" }},
		{"short secret in production", func(c *AppConfig) { c.AppEnv = "production" }},
		{"zero ttl", func(c *AppConfig) { c.SessionTTLHours = 0 }},
		{"unknown driver", func(c *AppConfig) { c.DBDriver = "oracle" }},
		{"sqlite without path", func(c *AppConfig) { c.DBPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	prod := valid
	prod.AppEnv = "prod"
	prod.SessionSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, prod.Validate())
}

func TestDialectorFor(t *testing.T) {
	for _, driver := range []string{"sqlite", "mysql", "postgres"} {
		d, err := dialectorFor(AppConfig{DBDriver: driver, DBPath: "x.db", DBHost: "db", DBPort: "1", DBName: "n"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := dialectorFor(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestLoad_CachesFirstResult(t *testing.T) {
	t.Setenv("SESSION_SECRET", "first-secret")
	t.Setenv("APP_PORT", "7001")

	first, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", first.AppPort)

	t.Setenv("APP_PORT", "7002")
	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
