package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IndexedModel is implemented by models that need indexes ensured on tables created
// before the index existed.
type IndexedModel interface {
	RequiredIndexes() []string
}

// InitDatabase opens the configured database and creates any missing tables.
// Existing tables are never altered except to add missing indexes.
func InitDatabase(c AppConfig, modelDefs ...interface{}) (*gorm.DB, error) {
	dialector, err := dialectorFor(c)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger: derive level from app LogLevel and raise slow-sql threshold to reduce noise
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(c.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if c.DBDriver == "sqlite" {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := ensureSchema(db, modelDefs...); err != nil {
		return nil, err
	}
	return db, nil
}

// ensureSchema creates tables that do not exist yet and adds missing indexes to the rest.
func ensureSchema(db *gorm.DB, modelDefs ...interface{}) error {
	m := db.Migrator()
	for _, model := range modelDefs {
		if !m.HasTable(model) {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("auto migration failed for %T: %w", model, err)
			}
			continue
		}
		im, ok := model.(IndexedModel)
		if !ok {
			continue
		}
		for _, idx := range im.RequiredIndexes() {
			if m.HasIndex(model, idx) {
				continue
			}
			// Duplicate rows left by an older schema make this fail; keep serving and say so.
			if err := m.CreateIndex(model, idx); err != nil {
				log.Printf("warning: failed to create index %s for %T: %v", idx, model, err)
			}
		}
	}
	return nil
}

func dialectorFor(c AppConfig) (gorm.Dialector, error) {
	switch c.DBDriver {
	case "sqlite", "":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = c.DBPath
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				c.DBUser,
				c.DBPassword,
				c.DBHost,
				c.DBPort,
				c.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				c.DBHost,
				c.DBPort,
				c.DBUser,
				c.DBPassword,
				c.DBName,
			)
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
