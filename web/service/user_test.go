package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestUserServiceRegisterAndCheck(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(setup(t))

	alice, err := users.Register(ctx, "alice", "pw123456", "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.NotZero(t, alice.Id)
	assert.Equal(t, model.RoleUser, alice.Role)
	assert.NotEqual(t, "pw123456", alice.Password)

	got, err := users.CheckUser(ctx, "alice", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, alice.Id, got.Id)

	_, err = users.CheckUser(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.CheckUser(ctx, "nobody", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Register(ctx, "alice", "other-pw", "Alice 2", "a2@example.com")
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestUserServiceCreateUserRoles(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(setup(t))

	root, err := users.CreateUser(ctx, NewUser{Username: "root", Password: "secret1", Name: "Root", Email: "r@example.com", Role: model.RoleMaster})
	require.NoError(t, err)
	assert.True(t, root.IsMaster())

	plain, err := users.CreateUser(ctx, NewUser{Username: "bob", Password: "secret1", Name: "Bob", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, plain.Role)

	_, err = users.CreateUser(ctx, NewUser{Username: "eve", Password: "secret1", Role: "admin"})
	assert.True(t, common.IsKind(err, common.KindValidation))

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "root", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
}

func TestUserServiceDeleteUser(t *testing.T) {
	ctx := context.Background()
	db := setup(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)

	root, err := users.CreateUser(ctx, NewUser{Username: "root", Password: "secret1", Role: model.RoleMaster})
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob", "secret1", "Bob", "b@example.com")
	require.NoError(t, err)

	q, err := questions.CreateQuestion(ctx, &model.Question{Question: "what is let?", Answer: "a binding", Lesson: "Lesson 02", UserId: &bob.Id})
	require.NoError(t, err)
	_, err = questions.CreateFeedback(ctx, &model.Feedback{QuestionId: q.Id, IsHelpful: true})
	require.NoError(t, err)

	t.Run("self delete is rejected", func(t *testing.T) {
		err := users.DeleteUser(ctx, root.Id, root.Id)
		assert.ErrorIs(t, err, common.ErrSelfDelete)
		_, err = users.GetUser(ctx, root.Id)
		assert.NoError(t, err, "record unchanged")
	})

	t.Run("missing user", func(t *testing.T) {
		assert.ErrorIs(t, users.DeleteUser(ctx, root.Id, 999), common.ErrNotFound)
	})

	t.Run("cascade to questions and feedback", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, root.Id, bob.Id))
		_, err := users.GetUser(ctx, bob.Id)
		assert.ErrorIs(t, err, common.ErrNotFound)

		owned, err := questions.ListByOwner(ctx, bob.Id)
		require.NoError(t, err)
		assert.Empty(t, owned)

		var feedback int64
		require.NoError(t, db.Model(&model.Feedback{}).Count(&feedback).Error)
		assert.Zero(t, feedback)
	})
}

func TestCheckUserAuthUnavailable(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(setup(t))
	_, err := users.Register(ctx, "alice", "pw123456", "Alice", "alice@example.com")
	require.NoError(t, err)

	users.checkPassword = func(string, string) (bool, error) {
		return false, errors.New("scrypt: out of memory")
	}
	_, err = users.CheckUser(ctx, "alice", "pw123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "authentication unavailable", common.Message(err))
}
