package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/domain"
)

// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint, the default for the openai provider.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// OpenAI generates text through any OpenAI-compatible chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, eris.New("genai: API key is required")
	}
	if baseURL == "" {
		baseURL = GeminiOpenAIBaseURL
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (p *OpenAI) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		N:           opts.CandidateCount,
		MaxTokens:   opts.MaxOutputTokens,
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		observability.ObserveExternal("genai", "openai", statusOf(err), time.Since(start))
		return "", eris.Wrap(err, "genai: openai chat completion")
	}
	observability.ObserveExternal("genai", "openai", 200, time.Since(start))

	if len(resp.Choices) == 0 {
		return "", eris.New("genai: openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// statusOf extracts the HTTP status from an SDK error, or 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
