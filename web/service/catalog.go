package service

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ortosupport/course-assistant/util/common"

	"github.com/pelletier/go-toml/v2"
)

// Topic is one lesson of the course. Keywords widen local matching beyond
// the lesson title.
type Topic struct {
	Title    string   `toml:"title"`
	Keywords []string `toml:"keywords"`
}

// Catalog is the ordered list of course lessons. Order matters: matching
// returns the first topic that fits, and the first topic is the default.
type Catalog struct {
	Topics []Topic `toml:"topic"`
}

// DefaultCatalog returns the built-in JavaScript course.
func DefaultCatalog() *Catalog {
	return &Catalog{Topics: []Topic{
		{
			Title:    "Lesson 01 - Introduction to Programming",
			Keywords: []string{"programming basics", "algorithm", "programming logic"},
		},
		{
			Title:    "Lesson 02 - Variables and Data Types in JavaScript",
			Keywords: []string{"var", "let", "const", "primitive type", "string", "number", "boolean", "operator"},
		},
		{
			Title:    "Lesson 03 - Control Structures",
			Keywords: []string{"if", "else", "switch", "for loop", "while", "do-while", "break", "continue"},
		},
		{
			Title:    "Lesson 04 - Functions in JavaScript",
			Keywords: []string{"function declaration", "arrow function", "parameter", "return value", "callback"},
		},
		{
			Title:    "Lesson 05 - Array Methods in JavaScript",
			Keywords: []string{"map()", "filter()", "reduce()", "forEach()", "find()", "findIndex()"},
		},
	}}
}

// LoadCatalog reads a catalog from a TOML file made of [[topic]] tables.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Topics) == 0 {
		return common.NewErrorf("catalog has no topics")
	}
	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			return common.NewErrorf("topic %d has no title", i+1)
		}
		if seen[strings.ToLower(title)] {
			return common.NewErrorf("duplicate topic %q", title)
		}
		seen[strings.ToLower(title)] = true
	}
	return nil
}

// Default returns the fallback topic title.
func (c *Catalog) Default() string {
	return c.Topics[0].Title
}

// Find returns the catalog title equal to title ignoring case and spacing.
func (c *Catalog) Find(title string) (string, bool) {
	title = strings.TrimSpace(title)
	for _, t := range c.Topics {
		if strings.EqualFold(t.Title, title) {
			return t.Title, true
		}
	}
	return "", false
}

// Prompt renders the catalog as one "title: keywords" line per topic.
func (c *Catalog) Prompt() string {
	var b strings.Builder
	for _, t := range c.Topics {
		b.WriteString(t.Title)
		if len(t.Keywords) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(t.Keywords, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var lessonPrefix = regexp.MustCompile(`(?i)^\s*(lesson|aula)\s*\d+\s*[-–:]\s*`)

// MatchTopic returns the first topic whose bare title or any keyword occurs
// in text as a substring, ignoring case, or the first topic if none does.
// Bare titles have their "Lesson NN -" prefix removed. "let" matches inside
// "complete" and "callback" inside "callbacks".
func MatchTopic(text string, topics []Topic) string {
	if title, ok := matchTopic(text, topics); ok {
		return title
	}
	if len(topics) == 0 {
		return ""
	}
	return topics[0].Title
}

func matchTopic(text string, topics []Topic) (string, bool) {
	haystack := strings.ToLower(text)
	for _, t := range topics {
		bare := strings.ToLower(strings.TrimSpace(lessonPrefix.ReplaceAllString(t.Title, "")))
		if bare != "" && strings.Contains(haystack, bare) {
			return t.Title, true
		}
		for _, kw := range t.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(haystack, kw) {
				return t.Title, true
			}
		}
	}
	return "", false
}

// Resolve maps a lesson emitted by the generator onto the catalog. Unknown
// or empty lessons are matched against the lesson text and then the answer.
func (c *Catalog) Resolve(lesson, answer string) string {
	if title, ok := c.Find(lesson); ok {
		return title
	}
	if strings.TrimSpace(lesson) != "" {
		if title, ok := matchTopic(lesson, c.Topics); ok {
			return title
		}
	}
	return MatchTopic(answer, c.Topics)
}
