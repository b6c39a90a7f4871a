package service

import (
	"context"
	"testing"

	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionServiceCRUD(t *testing.T) {
	ctx := context.Background()
	suggestions := NewSuggestionService(setup(t))

	category := "Functions"
	on, err := suggestions.Create(ctx, SuggestionInput{Text: "What is a callback?", Category: &category, Active: true})
	require.NoError(t, err)
	off, err := suggestions.Create(ctx, SuggestionInput{Text: "What is hoisting?", Active: false})
	require.NoError(t, err)

	got, err := suggestions.Get(ctx, off.Id)
	require.NoError(t, err)
	assert.False(t, got.Active, "explicit false is stored")
	assert.Nil(t, got.Category)

	all, err := suggestions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := suggestions.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, on.Id, active[0].Id)

	updated, err := suggestions.Update(ctx, on.Id, SuggestionInput{Text: "What is a closure?", Active: false})
	require.NoError(t, err)
	assert.Equal(t, "What is a closure?", updated.Text)
	assert.False(t, updated.Active)
	assert.Nil(t, updated.Category)

	active, err = suggestions.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = suggestions.Update(ctx, 999, SuggestionInput{Text: "x", Active: true})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, suggestions.Delete(ctx, on.Id))
	assert.ErrorIs(t, suggestions.Delete(ctx, on.Id), common.ErrNotFound)
	_, err = suggestions.Get(ctx, on.Id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListActiveNeverReturnsInactive(t *testing.T) {
	ctx := context.Background()
	db := setup(t)
	require.NoError(t, database.Seed(ctx, db))
	suggestions := NewSuggestionService(db)

	for i := 0; i < 10; i++ {
		_, err := suggestions.Create(ctx, SuggestionInput{Text: "q", Active: i%3 == 0})
		require.NoError(t, err)
	}
	active, err := suggestions.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 5)
	for _, s := range active {
		assert.True(t, s.Active)
	}
}
