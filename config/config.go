package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds environment driven configuration values.
// Sensitive data such as the session secret never has a default inside code and must be
// provided via .env, config/config.json or the environment.
type AppConfig struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppPort string `mapstructure:"APP_PORT"`
	// Session cookie signing
	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	SessionCookie   string `mapstructure:"SESSION_COOKIE"`
	SessionSecure   bool   `mapstructure:"SESSION_SECURE"`
	// Storage
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURI string `mapstructure:"DATABASE_URI"`
	DBPath      string `mapstructure:"DB_PATH"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	// Redis backs session revocation; empty host keeps it in memory
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     int    `mapstructure:"REDIS_PORT"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// HTTP
	RateLimitPerMinute int      `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	ReadTimeoutSec     int      `mapstructure:"READ_TIMEOUT_SEC"`
	WriteTimeoutSec    int      `mapstructure:"WRITE_TIMEOUT_SEC"`
	// Gin framework configuration
	GinMode string `mapstructure:"GIN_MODE"`
	GinPath string `mapstructure:"GIN_PATH"`
	// Logging configuration
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogPath       string `mapstructure:"LOG_PATH"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `mapstructure:"LOG_COMPRESS"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load loads the application configuration once; later calls return the cached value.
//
// Precedence, lowest first: defaults, config/config.json, .env, environment variables.
func Load() (AppConfig, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg, nil
	}

	// .env only fills variables that are not already set in the process environment
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	c, err := loadFrom(viper.New(), filepath.Join("config", "config.json"))
	if err != nil {
		return AppConfig{}, err
	}
	cfg = c
	loaded = true
	return cfg, nil
}

func loadFrom(v *viper.Viper, path string) (AppConfig, error) {
	applyDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	var out AppConfig
	if err := v.Unmarshal(&out); err != nil {
		return AppConfig{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	out.normalize()

	if err := out.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return out, nil
}

// applyDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL_HOURS", 72)
	v.SetDefault("SESSION_COOKIE", "minisocial_session")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URI", "")
	v.SetDefault("DB_PATH", "social.db")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "minisocial")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("READ_TIMEOUT_SEC", 60)
	v.SetDefault("WRITE_TIMEOUT_SEC", 60)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("GIN_PATH", "logs/go_gin.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)
	v.SetDefault("LOG_COMPRESS", false)
}

func (c *AppConfig) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.AllowedOrigins = origins
	if c.DBPort == "" {
		switch c.DBDriver {
		case "mysql":
			c.DBPort = "3306"
		case "postgres":
			c.DBPort = "5432"
		}
	}
}

// IsProduction reports whether strict checks apply.
func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c AppConfig) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.IsProduction() && len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters in production")
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver == "sqlite" && c.DatabaseURI == "" && c.DBPath == "" {
		return errors.New("DB_PATH is required for sqlite")
	}
	return nil
}
