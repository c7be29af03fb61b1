package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/domain"
)

// maxPromptReviews bounds how many reviews are embedded in the prompt.
const maxPromptReviews = 20

var generationOptions = domain.GenerationOptions{
	Temperature:     0.2,
	CandidateCount:  1,
	MaxOutputTokens: 2048,
}

var (
	// fenceOpenPattern matches a leading ``` marker with an optional language tag.
	fenceOpenPattern  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?")
	fenceClosePattern = regexp.MustCompile("\\r?\\n?[ \\t]*```$")
	// jsonObjectPattern is greedy: first "{" through last "}".
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

var (
	errGeneratorDisabled = errors.New("generative provider disabled")
	errNoJSONObject      = errors.New("no JSON object in provider output")
)

// AnalysisEngine analyzes reviews with a generative provider and falls back to
// the deterministic Fallback analysis on any failure. It never returns an error.
type AnalysisEngine struct {
	gen domain.Generator
}

// NewAnalysisEngine accepts a nil generator; every analysis then takes the fallback branch.
func NewAnalysisEngine(g domain.Generator) *AnalysisEngine {
	return &AnalysisEngine{gen: g}
}

func (e *AnalysisEngine) Analyze(ctx context.Context, placeName string, reviews []domain.Review) (out domain.AnalysisOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackOutcome(placeName, reviews, fmt.Errorf("primary analysis panicked: %v", r))
		}
	}()

	result, err := e.primary(ctx, placeName, reviews)
	if err != nil {
		return fallbackOutcome(placeName, reviews, err)
	}
	observability.ObserveAnalysis(string(domain.BranchPrimary))
	return domain.AnalysisOutcome{Result: result, Branch: domain.BranchPrimary}
}

func (e *AnalysisEngine) primary(ctx context.Context, placeName string, reviews []domain.Review) (domain.AnalysisResult, error) {
	if e.gen == nil {
		return domain.AnalysisResult{}, errGeneratorDisabled
	}
	text, err := e.gen.Generate(ctx, buildPrompt(placeName, reviews), generationOptions)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return parseAnalysis(text)
}

func fallbackOutcome(placeName string, reviews []domain.Review, cause error) domain.AnalysisOutcome {
	log.Warn().Err(cause).Str("place", placeName).Int("reviews", len(reviews)).Msg("using fallback analysis")
	observability.ObserveAnalysis(string(domain.BranchFallback))
	return domain.AnalysisOutcome{
		Result: Fallback(placeName, reviews),
		Branch: domain.BranchFallback,
		Reason: cause.Error(),
	}
}

func buildPrompt(placeName string, reviews []domain.Review) string {
	if len(reviews) > maxPromptReviews {
		reviews = reviews[:maxPromptReviews]
	}
	lines := make([]string, 0, len(reviews))
	for _, r := range reviews {
		rating := "N/A"
		if r.Rating != nil {
			rating = strconv.Itoa(*r.Rating)
		}
		lines = append(lines, fmt.Sprintf("Rating: %s/5 - %s", rating, r.Text))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing customer reviews for %q.\n\n", placeName)
	b.WriteString("Reviews:\n")
	b.WriteString(strings.Join(lines, "\n\n"))
	b.WriteString(`

Respond with ONLY a JSON object (no prose) of this exact shape:
{
  "overallSentiment": "positive" | "negative" | "mixed",
  "topicSummaries": [{"topic": string, "summary": string, "mentionCount": number}],
  "keyInsights": [string],
  "commonPhrases": [string],
  "customerPainPoints": [string],
  "positiveHighlights": [string],
  "recommendations": [string]
}
Group recurring themes (service, food, price, atmosphere, cleanliness, ...) into topicSummaries,
count how many reviews mention each topic, and keep every string short and specific.`)
	return b.String()
}

// parseAnalysis extracts, decodes and repairs the provider's JSON answer.
func parseAnalysis(text string) (domain.AnalysisResult, error) {
	s := strings.TrimSpace(text)
	s = fenceOpenPattern.ReplaceAllString(s, "")
	s = fenceClosePattern.ReplaceAllString(s, "")

	raw := jsonObjectPattern.FindString(s)
	if raw == "" {
		return domain.AnalysisResult{}, errNoJSONObject
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode provider JSON: %w", err)
	}
	return repairAnalysis(obj), nil
}

// repairAnalysis keeps only well-typed fields; every list defaults to empty.
func repairAnalysis(obj map[string]any) domain.AnalysisResult {
	sentiment := domain.SentimentMixed
	if s, ok := obj["overallSentiment"].(string); ok {
		if v := domain.Sentiment(strings.ToLower(strings.TrimSpace(s))); v.Valid() {
			sentiment = v
		}
	}
	return domain.AnalysisResult{
		OverallSentiment:   sentiment,
		TopicSummaries:     topicList(obj["topicSummaries"]),
		KeyInsights:        stringList(obj["keyInsights"]),
		CommonPhrases:      stringList(obj["commonPhrases"]),
		CustomerPainPoints: stringList(obj["customerPainPoints"]),
		PositiveHighlights: stringList(obj["positiveHighlights"]),
		Recommendations:    stringList(obj["recommendations"]),
	}
}

func stringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func topicList(v any) []domain.TopicSummary {
	out := []domain.TopicSummary{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		ts := domain.TopicSummary{}
		ts.Topic, _ = m["topic"].(string)
		ts.Summary, _ = m["summary"].(string)
		switch n := m["mentionCount"].(type) {
		case float64:
			ts.MentionCount = int(n)
		case string:
			ts.MentionCount, _ = strconv.Atoi(strings.TrimSpace(n))
		}
		out = append(out, ts)
	}
	return out
}
