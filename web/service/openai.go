package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o"
)

// OpenAIGenerator calls the chat completions endpoint of the OpenAI API or
// any server compatible with it.
type OpenAIGenerator struct {
	client *resty.Client
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// openAIError is the error body returned with non-2xx statuses.
type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// NewOpenAIGenerator creates a generator for apiKey. Empty baseURL and model
// select the public API and gpt-4o.
func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	return &OpenAIGenerator{client: client, model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	}
	if req.JSON {
		body.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	var out chatResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&openAIError{}).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*openAIError); ok && apiErr.Error.Message != "" {
			return "", fmt.Errorf("openai returned %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai returned %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

var errEmptyResponse = errors.New("generator returned an empty response")
