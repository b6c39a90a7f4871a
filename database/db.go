// Package database opens the relational store and migrates its schema.
package database

import (
	"context"
	"errors"
	"strings"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sampleSuggestion = "What is the difference between map() and forEach() on arrays?"

// Open connects to the configured database. The returned handle is safe for
// concurrent use and must be closed with Close.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return nil, err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	if cfg.IsPostgreSQL() {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		dialector = sqlite.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, c)
	if err != nil {
		return nil, err
	}

	if cfg.IsSQLite() {
		for _, pragma := range []string{
			"PRAGMA cache_size = -64000;",
			"PRAGMA temp_store = MEMORY;",
		} {
			if err := db.Exec(pragma).Error; err != nil {
				return nil, err
			}
		}
	}
	return db, nil
}

// Migrate creates or updates the tables. Foreign keys cascade from users to
// questions and sessions, and from questions to feedback.
func Migrate(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.Question{},
		&model.Feedback{},
		&model.Suggestion{},
		&model.Session{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Warningf("Error auto migrating model %T: %v", m, err)
			return err
		}
	}
	return nil
}

// Seed inserts the sample suggestion when the suggestions table is empty.
func Seed(ctx context.Context, db *gorm.DB) error {
	empty, err := isTableEmpty(db.WithContext(ctx), &model.Suggestion{})
	if err != nil || !empty {
		return err
	}
	category := "Arrays"
	return db.WithContext(ctx).Create(&model.Suggestion{
		Text:     sampleSuggestion,
		Category: &category,
		Active:   true,
	}).Error
}

func isTableEmpty(db *gorm.DB, m any) (bool, error) {
	var count int64
	err := db.Model(m).Count(&count).Error
	return count == 0, err
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports a unique or primary key constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a foreign key constraint failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
