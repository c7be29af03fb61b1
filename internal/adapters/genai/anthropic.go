package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/domain"
)

// Anthropic generates text through the Anthropic Messages API.
// The API returns a single candidate, so CandidateCount is ignored.
// SDK retries are disabled; a failed call goes straight to the fallback analysis.
type Anthropic struct {
	client sdk.Client
	model  string
}

func NewAnthropic(apiKey, baseURL, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, eris.New("genai: API key is required")
	}
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{client: sdk.NewClient(opts...), model: model}, nil
}

func (p *Anthropic) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(p.model),
		MaxTokens:   int64(opts.MaxOutputTokens),
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		Temperature: sdk.Float(float64(opts.Temperature)),
	}

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		observability.ObserveExternal("genai", "anthropic", status, time.Since(start))
		return "", eris.Wrap(err, "genai: anthropic create message")
	}
	observability.ObserveExternal("genai", "anthropic", 200, time.Since(start))

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", eris.New("genai: anthropic returned no text")
	}
	return strings.TrimSpace(b.String()), nil
}
