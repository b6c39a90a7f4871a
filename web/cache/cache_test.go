package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerCacheNormalizesQuestion(t *testing.T) {
	c := NewAnswerCache(time.Minute)
	c.Set("What is  a Closure?", CachedAnswer{Answer: "a function", Lesson: "Lesson 03 - Functions"})

	got, ok := c.Get("  what is a closure? ")
	require.True(t, ok)
	assert.Equal(t, "a function", got.Answer)

	_, ok = c.Get("what is a promise?")
	assert.False(t, ok)

	c.Flush()
	_, ok = c.Get("what is a closure?")
	assert.False(t, ok)
}

func TestDisabledAnswerCache(t *testing.T) {
	c := NewAnswerCache(0)
	assert.Nil(t, c)
	c.Set("q", CachedAnswer{Answer: "a"})
	_, ok := c.Get("q")
	assert.False(t, ok)
}

func TestNewRedisEmbedded(t *testing.T) {
	r, err := NewRedis(context.Background(), "", "")
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, r.IsEmbedded())
	require.NoError(t, r.Client().Set(context.Background(), "k", "v", 0).Err())
	v, err := r.Client().Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNewRedisExternal(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer r.Close()
	assert.False(t, r.IsEmbedded())

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedis(context.Background(), addr, "")
	assert.Error(t, err)
}
