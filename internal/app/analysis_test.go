package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place_insights/internal/app"
	"place_insights/internal/domain"
)

const fullAnswer = `{
  "overallSentiment": "positive",
  "topicSummaries": [{"topic": "Coffee", "summary": "Consistently praised", "mentionCount": 12}],
  "keyInsights": ["Regulars love the pour-over"],
  "commonPhrases": ["great coffee"],
  "customerPainPoints": ["Long lines on weekends"],
  "positiveHighlights": ["Friendly baristas"],
  "recommendations": ["Open a second register"]
}`

func TestAnalyze_PrimaryShapes(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"bare", fullAnswer},
		{"json fence", "```json\n" + fullAnswer + "\n```"},
		{"plain fence", "```\n" + fullAnswer + "\n```"},
		{"prose around object", "Sure! Here is the analysis:\n" + fullAnswer + "\nLet me know if you need more."},
		{"padded", "\n\n  " + fullAnswer + "  \n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{out: tc.out}
			got := app.NewAnalysisEngine(gen).Analyze(context.Background(), "Blue Bottle", reviewsWithRatings(5, 4))

			require.Equal(t, domain.BranchPrimary, got.Branch)
			assert.Empty(t, got.Reason)
			assert.Equal(t, domain.AnalysisResult{
				OverallSentiment:   domain.SentimentPositive,
				TopicSummaries:     []domain.TopicSummary{{Topic: "Coffee", Summary: "Consistently praised", MentionCount: 12}},
				KeyInsights:        []string{"Regulars love the pour-over"},
				CommonPhrases:      []string{"great coffee"},
				CustomerPainPoints: []string{"Long lines on weekends"},
				PositiveHighlights: []string{"Friendly baristas"},
				Recommendations:    []string{"Open a second register"},
			}, got.Result)
		})
	}
}

func TestAnalyze_RepairsLooseAnswer(t *testing.T) {
	gen := &fakeGenerator{out: `{
		"overallSentiment": "Glowing",
		"topicSummaries": [{"topic": "Price", "summary": "Fair", "mentionCount": "3"}, "junk", {"topic": "Noise"}],
		"keyInsights": "not a list",
		"commonPhrases": ["ok", 7, null, "fine"],
		"recommendations": null
	}`}
	got := app.NewAnalysisEngine(gen).Analyze(context.Background(), "X", reviewsWithRatings(3))

	require.Equal(t, domain.BranchPrimary, got.Branch)
	r := got.Result
	assert.Equal(t, domain.SentimentMixed, r.OverallSentiment)
	assert.Equal(t, []domain.TopicSummary{
		{Topic: "Price", Summary: "Fair", MentionCount: 3},
		{Topic: "Noise"},
	}, r.TopicSummaries)
	assert.Equal(t, []string{}, r.KeyInsights)
	assert.Equal(t, []string{"ok", "fine"}, r.CommonPhrases)
	assert.Equal(t, []string{}, r.CustomerPainPoints)
	assert.Equal(t, []string{}, r.PositiveHighlights)
	assert.Equal(t, []string{}, r.Recommendations)
}

func TestAnalyze_SentimentNormalized(t *testing.T) {
	gen := &fakeGenerator{out: `{"overallSentiment": " Negative "}`}
	got := app.NewAnalysisEngine(gen).Analyze(context.Background(), "X", reviewsWithRatings(1))
	require.Equal(t, domain.BranchPrimary, got.Branch)
	assert.Equal(t, domain.SentimentNegative, got.Result.OverallSentiment)
}

func TestAnalyze_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		gen  domain.Generator
	}{
		{"nil generator", nil},
		{"generator error", &fakeGenerator{err: errBoom}},
		{"no braces", &fakeGenerator{out: "I cannot analyze these reviews."}},
		{"empty output", &fakeGenerator{out: ""}},
		{"malformed json", &fakeGenerator{out: `{"overallSentiment": "positive",}`}},
		{"json array of scalars", &fakeGenerator{out: `[1, 2, 3]`}},
		{"panic", &fakeGenerator{panic: true}},
	}
	reviews := reviewsWithRatings(5, 5, 1, 4)
	want := app.Fallback("Blue Bottle", reviews)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := app.NewAnalysisEngine(tc.gen).Analyze(context.Background(), "Blue Bottle", reviews)
			assert.Equal(t, domain.BranchFallback, got.Branch)
			assert.NotEmpty(t, got.Reason)
			assert.Equal(t, want, got.Result)
		})
	}
}

func TestAnalyze_Prompt(t *testing.T) {
	reviews := make([]domain.Review, 0, 25)
	for i := 0; i < 25; i++ {
		r := domain.Review{Text: fmt.Sprintf("review body number %02d", i)}
		if i != 1 {
			r.Rating = ptr(1 + i%5)
		}
		reviews = append(reviews, r)
	}
	gen := &fakeGenerator{out: fullAnswer}
	app.NewAnalysisEngine(gen).Analyze(context.Background(), "Blue Bottle", reviews)

	require.Equal(t, 1, gen.calls)
	assert.Equal(t, domain.GenerationOptions{Temperature: 0.2, CandidateCount: 1, MaxOutputTokens: 2048}, gen.lastOpts)

	p := gen.lastPrompt
	assert.Contains(t, p, `"Blue Bottle"`)
	assert.Contains(t, p, "Rating: 1/5 - review body number 00\n\nRating: N/A/5 - review body number 01\n\nRating: 3/5 - review body number 02")
	assert.Contains(t, p, "review body number 19")
	assert.NotContains(t, p, "review body number 20")
	for _, field := range []string{"overallSentiment", "topicSummaries", "mentionCount", "keyInsights",
		"commonPhrases", "customerPainPoints", "positiveHighlights", "recommendations"} {
		assert.True(t, strings.Contains(p, field), field)
	}
}
