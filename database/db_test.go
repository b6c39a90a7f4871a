package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	var suggestions []model.Suggestion
	require.NoError(t, db.Find(&suggestions).Error)
	require.Len(t, suggestions, 1)
	assert.True(t, suggestions[0].Active)
	assert.Equal(t, sampleSuggestion, suggestions[0].Text)
}

func TestUserDeletionCascades(t *testing.T) {
	db := openTestDB(t)

	user := &model.User{Username: "alice", Password: "x.y", Name: "Alice", Email: "a@example.com", Role: model.RoleUser}
	require.NoError(t, db.Create(user).Error)

	q := &model.Question{Question: "What is X?", Answer: "X", Lesson: "Lesson 1", UserId: &user.Id}
	require.NoError(t, db.Create(q).Error)
	require.NoError(t, db.Create(&model.Feedback{QuestionId: q.Id, IsHelpful: true}).Error)

	require.NoError(t, db.Delete(&model.User{}, user.Id).Error)

	var questions, feedback int64
	require.NoError(t, db.Model(&model.Question{}).Count(&questions).Error)
	require.NoError(t, db.Model(&model.Feedback{}).Count(&feedback).Error)
	assert.Zero(t, questions)
	assert.Zero(t, feedback)
}

func TestConstraintErrors(t *testing.T) {
	db := openTestDB(t)

	u := &model.User{Username: "bob", Password: "x.y", Name: "Bob", Email: "b@example.com", Role: model.RoleUser}
	require.NoError(t, db.Create(u).Error)

	dup := &model.User{Username: "bob", Password: "x.y", Name: "Bob 2", Email: "b2@example.com", Role: model.RoleUser}
	err := db.Create(dup).Error
	assert.True(t, IsUniqueViolation(err), "got %v", err)

	err = db.Create(&model.Feedback{QuestionId: 999, IsHelpful: false}).Error
	assert.True(t, IsForeignKeyViolation(err), "got %v", err)

	err = db.First(&model.User{}, 12345).Error
	assert.True(t, IsNotFound(err))
}

func TestPing(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Ping(context.Background(), db))
}
