package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/web/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator replays canned replies and records requests.
type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []GenerateRequest
	ctxErr   error
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.ctxErr = ctx.Err()
	return f.reply, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestAskStructured(t *testing.T) {
	gen := &fakeGenerator{reply: `{"answer":"Use map() to transform.","lesson":"Lesson 05 - Array Methods in JavaScript"}`}
	s := NewAssistantService(gen, nil, AssistantOptions{})

	a, err := s.Ask(context.Background(), "how do I transform an array?")
	require.NoError(t, err)
	assert.Equal(t, "Use map() to transform.", a.Answer)
	assert.Equal(t, "Lesson 05 - Array Methods in JavaScript", a.Lesson)

	require.Equal(t, 1, gen.calls())
	req := gen.requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, "how do I transform an array?", req.Prompt)
	assert.Contains(t, req.System, "Lesson 01 - Introduction to Programming")
}

func TestAskStructuredFallbacks(t *testing.T) {
	cases := []struct {
		name, reply, lesson string
	}{
		{"markdown fence", "```json\n{\"answer\":\"Use let.\",\"lesson\":\"Lesson 02 - Variables and Data Types in JavaScript\"}\n```", "Lesson 02 - Variables and Data Types in JavaScript"},
		{"empty lesson", `{"answer":"Write a while loop.","lesson":""}`, "Lesson 03 - Control Structures"},
		{"prose around json", `Sure! {"answer":"A callback is a function.","lesson":"Functions"} Hope it helps.`, "Lesson 04 - Functions in JavaScript"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewAssistantService(&fakeGenerator{reply: tc.reply}, nil, AssistantOptions{})
			a, err := s.Ask(context.Background(), "question")
			require.NoError(t, err)
			assert.Equal(t, tc.lesson, a.Lesson)
		})
	}
}

func TestAskFreeform(t *testing.T) {
	gen := &fakeGenerator{reply: "  You can use filter() to keep matching items.  "}
	s := NewAssistantService(gen, nil, AssistantOptions{Mode: config.TopicModeFreeform})

	a, err := s.Ask(context.Background(), "how do I drop items?")
	require.NoError(t, err)
	assert.Equal(t, "You can use filter() to keep matching items.", a.Answer)
	assert.Equal(t, "Lesson 05 - Array Methods in JavaScript", a.Lesson)
	assert.False(t, gen.requests[0].JSON)
}

func TestAskFailuresAreSanitized(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"transport", &fakeGenerator{err: errors.New("dial tcp: quota exceeded for key sk-secret")}},
		{"empty", &fakeGenerator{reply: ""}},
		{"unparsable", &fakeGenerator{reply: "I am not JSON"}},
		{"missing answer", &fakeGenerator{reply: `{"lesson":"Lesson 01"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewAssistantService(tc.gen, nil, AssistantOptions{})
			_, err := s.Ask(context.Background(), "question")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAnswerUnavailable)
			assert.Equal(t, "failed to process your question, try again later", common.Message(err))
			assert.NotContains(t, err.Error(), "sk-secret")
			assert.Equal(t, 1, tc.gen.calls(), "no retries")
		})
	}
}

func TestAskDetachedFromCancellation(t *testing.T) {
	gen := &fakeGenerator{reply: `{"answer":"ok","lesson":"Lesson 01 - Introduction to Programming"}`}
	s := NewAssistantService(gen, nil, AssistantOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Ask(ctx, "question")
	require.NoError(t, err)
	assert.NoError(t, gen.ctxErr)
}

func TestAskUsesCache(t *testing.T) {
	gen := &fakeGenerator{reply: `{"answer":"ok","lesson":"Lesson 01 - Introduction to Programming"}`}
	s := NewAssistantService(gen, nil, AssistantOptions{Cache: cache.NewAnswerCache(time.Minute)})

	_, err := s.Ask(context.Background(), "What is an algorithm?")
	require.NoError(t, err)
	a, err := s.Ask(context.Background(), "what is an  ALGORITHM?")
	require.NoError(t, err)
	assert.Equal(t, "ok", a.Answer)
	assert.Equal(t, 1, gen.calls())

	gen.err = errors.New("down")
	_, err = s.Ask(context.Background(), "something else")
	assert.Error(t, err)
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSONFromMarkdown(`text {"a":{"b":2}} text`))
	assert.Empty(t, extractJSONFromMarkdown("no json"))
}
