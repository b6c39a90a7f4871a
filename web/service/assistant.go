package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/util/metrics"
	"github.com/ortosupport/course-assistant/web/cache"

	"github.com/goccy/go-json"
)

// ErrAnswerUnavailable is the only error Ask returns to callers; provider
// failures are logged and replaced by it.
var ErrAnswerUnavailable = &common.AppError{
	Kind: common.KindUpstream,
	Msg:  "failed to process your question, try again later",
}

// GenerateRequest is one call to an answer generator.
type GenerateRequest struct {
	System string
	Prompt string
	// JSON asks the provider for a JSON object reply.
	JSON bool
}

// Generator produces the text of an answer. Implementations do not retry.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// NewGenerator creates the provider selected by cfg.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	if cfg.GeneratorAPIKey == "" {
		logger.Warningf("no API key configured for the %s generator", cfg.Generator)
	}
	switch cfg.Generator {
	case config.GeneratorGemini:
		return NewGeminiGenerator(ctx, cfg.GeneratorAPIKey, cfg.GeneratorBaseURL, cfg.GeneratorModel)
	case config.GeneratorOpenAI:
		return NewOpenAIGenerator(cfg.GeneratorAPIKey, cfg.GeneratorBaseURL, cfg.GeneratorModel), nil
	}
	return nil, common.NewErrorf("unsupported generator: %s", cfg.Generator)
}

// Answer is a generated answer and the lesson it belongs to.
type Answer struct {
	Answer string `json:"answer"`
	Lesson string `json:"lesson"`
}

type AssistantOptions struct {
	Mode config.TopicMode
	// Timeout bounds a generator call; zero waits indefinitely.
	Timeout time.Duration
	Cache   *cache.AnswerCache
}

// AssistantService answers course questions with a Generator and tags them
// with a lesson of the catalog.
type AssistantService struct {
	generator Generator
	catalog   *Catalog
	mode      config.TopicMode
	timeout   time.Duration
	cache     *cache.AnswerCache
}

func NewAssistantService(generator Generator, catalog *Catalog, opts AssistantOptions) *AssistantService {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if opts.Mode == "" {
		opts.Mode = config.TopicModeStructured
	}
	return &AssistantService{
		generator: generator,
		catalog:   catalog,
		mode:      opts.Mode,
		timeout:   opts.Timeout,
		cache:     opts.Cache,
	}
}

func (s *AssistantService) Catalog() *Catalog {
	return s.catalog
}

// Ask answers question. The generator call is detached from ctx
// cancellation so a client hanging up does not abort a paid request.
func (s *AssistantService) Ask(ctx context.Context, question string) (*Answer, error) {
	if cached, ok := s.cache.Get(question); ok {
		logger.Debug("Answer cache hit")
		return &Answer{Answer: cached.Answer, Lesson: cached.Lesson}, nil
	}

	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		answer *Answer
		err    error
	)
	start := time.Now()
	if s.mode == config.TopicModeFreeform {
		answer, err = s.askFreeform(ctx, question)
	} else {
		answer, err = s.askStructured(ctx, question)
	}
	metrics.GeneratorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeneratorFailures.Inc()
		logger.Warning("answer generation failed:", err)
		return nil, ErrAnswerUnavailable
	}

	metrics.QuestionsAnswered.WithLabelValues(answer.Lesson).Inc()
	s.cache.Set(question, cache.CachedAnswer{Answer: answer.Answer, Lesson: answer.Lesson})
	return answer, nil
}

func (s *AssistantService) askStructured(ctx context.Context, question string) (*Answer, error) {
	text, err := s.generator.Generate(ctx, GenerateRequest{
		System: structuredPrompt(s.catalog),
		Prompt: question,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	answer, err := parseAnswer(text)
	if err != nil {
		if cleaned := extractJSONFromMarkdown(text); cleaned != "" {
			answer, err = parseAnswer(cleaned)
		}
		if err != nil {
			return nil, err
		}
	}
	answer.Lesson = s.catalog.Resolve(answer.Lesson, answer.Answer)
	return answer, nil
}

func (s *AssistantService) askFreeform(ctx context.Context, question string) (*Answer, error) {
	text, err := s.generator.Generate(ctx, GenerateRequest{
		System: freeformPrompt,
		Prompt: question,
	})
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyResponse
	}
	return &Answer{Answer: text, Lesson: MatchTopic(text, s.catalog.Topics)}, nil
}

// Close releases the generator if it holds resources.
func (s *AssistantService) Close() error {
	if c, ok := s.generator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

const freeformPrompt = `You are an assistant for a JavaScript course.
Answer the student's question clearly and objectively.`

func structuredPrompt(c *Catalog) string {
	return fmt.Sprintf(`You are an assistant for a JavaScript course.
Answer the student's question clearly and objectively.

After answering, identify the ONE lesson of the course that covers the content.

Course structure:
%s
Respond with a JSON object with the following fields:
{
  "answer": "your detailed answer",
  "lesson": "full title of the most relevant lesson, e.g. %s"
}`, c.Prompt(), c.Topics[len(c.Topics)-1].Title)
}

func parseAnswer(text string) (*Answer, error) {
	var a Answer
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if strings.TrimSpace(a.Answer) == "" {
		return nil, errEmptyResponse
	}
	return &a, nil
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	if idx := strings.Index(text, "```"); idx != -1 {
		if endIdx := strings.Index(text[idx+3:], "```"); endIdx != -1 {
			extracted := text[idx+3 : idx+3+endIdx]
			extracted = strings.TrimPrefix(extracted, "json")
			return strings.TrimSpace(extracted)
		}
	}

	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end != -1 && end > start {
			return text[start : end+1]
		}
	}
	return ""
}
