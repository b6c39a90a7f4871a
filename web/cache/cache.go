package cache

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedAnswer is the part of a generated answer worth reusing.
type CachedAnswer struct {
	Answer string
	Lesson string
}

// AnswerCache memoizes generated answers per normalized question text.
// A nil *AnswerCache is valid and never hits.
type AnswerCache struct {
	memory *cache.Cache
}

// NewAnswerCache returns a cache keeping answers for ttl, or nil if ttl is
// not positive.
func NewAnswerCache(ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		return nil
	}
	return &AnswerCache{memory: cache.New(ttl, 2*ttl)}
}

func (c *AnswerCache) Get(question string) (CachedAnswer, bool) {
	if c == nil {
		return CachedAnswer{}, false
	}
	v, ok := c.memory.Get(answerKey(question))
	if !ok {
		return CachedAnswer{}, false
	}
	return v.(CachedAnswer), true
}

func (c *AnswerCache) Set(question string, a CachedAnswer) {
	if c == nil {
		return
	}
	c.memory.SetDefault(answerKey(question), a)
}

func (c *AnswerCache) Flush() {
	if c != nil {
		c.memory.Flush()
	}
}

// answerKey lowercases the question and collapses whitespace.
func answerKey(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}
