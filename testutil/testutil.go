// Package testutil builds throwaway configuration and databases for tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/minisocial/config"
	"github.com/cppla/minisocial/models"
)

// SessionSecret is the signing secret used by Config.
const SessionSecret = "test-secret-that-is-long-enough-for-prod"

// Config returns a valid configuration for an isolated in-memory sqlite database.
func Config() config.AppConfig {
	return config.AppConfig{
		AppEnv:             "test",
		AppPort:            "0",
		SessionSecret:      SessionSecret,
		SessionTTLHours:    1,
		SessionCookie:      "minisocial_session",
		DBDriver:           "sqlite",
		DatabaseURI:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		GinMode:            "test",
		LogLevel:           "silent",
	}
}

// NewDB opens a fresh schema through config.InitDatabase and closes it when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return NewDBWithConfig(t, Config())
}

// NewDBWithConfig is NewDB for a caller-supplied configuration.
func NewDBWithConfig(t testing.TB, cfg config.AppConfig) *gorm.DB {
	t.Helper()
	db, err := config.InitDatabase(cfg, models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user row directly. The password hash is a placeholder.
func CreateUser(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreatePost inserts a post row directly.
func CreatePost(t testing.TB, db *gorm.DB, userID uint, content string) models.Post {
	t.Helper()
	p := models.Post{UserID: userID, Content: content}
	require.NoError(t, db.Create(&p).Error)
	return p
}
