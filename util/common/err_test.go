package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("deleting user 3: %w", ErrSelfDelete)
	assert.True(t, errors.Is(wrapped, ErrSelfDelete))
	assert.False(t, errors.Is(wrapped, ErrForbidden))
	assert.Equal(t, KindSelfDelete, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	err := Wrap(KindIntegrity, "internal server error", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrIntegrity))
	assert.Equal(t, KindIntegrity, KindOf(err))
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal", KindOf(nil).String())
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))
	err := Combine(nil, errors.New("a"), errors.New("b"))
	assert.ErrorContains(t, err, "a")
	assert.ErrorContains(t, err, "b")
}

func TestMessageHidesCause(t *testing.T) {
	err := Wrap(KindUpstream, "failed to process your question, try again later", errors.New("quota exceeded for key sk-123"))
	assert.Equal(t, "failed to process your question, try again later", Message(err))
	assert.Equal(t, "internal server error", Message(errors.New("dial tcp 10.0.0.1:5432")))
	assert.Equal(t, "you cannot delete your own account", Message(fmt.Errorf("x: %w", ErrSelfDelete)))
}
