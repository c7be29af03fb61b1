package app

import (
	"fmt"
	"math"
	"strings"

	"place_insights/internal/domain"
)

var (
	positiveKeywords = []string{"great", "good", "excellent", "amazing", "love", "best", "perfect"}
	negativeKeywords = []string{"bad", "terrible", "awful", "worst", "hate", "disappointing"}
)

const (
	maxFallbackPhrases    = 5
	maxFallbackPainPoints = 3
	lowRatingThreshold    = 3.5
)

// Fallback computes a rating and keyword based analysis without any provider.
// It is a pure function of its inputs.
func Fallback(placeName string, reviews []domain.Review) domain.AnalysisResult {
	n := len(reviews)
	var sum, positive, negative int
	texts := make([]string, 0, n)
	for _, r := range reviews {
		texts = append(texts, r.Text)
		// unrated reviews add 0 to the sum but are neither positive nor negative
		if r.Rating == nil {
			continue
		}
		rating := *r.Rating
		sum += rating
		switch {
		case rating >= 4:
			positive++
		case rating <= 2:
			negative++
		}
	}

	var avg, shownAvg, positivePct float64
	if n > 0 {
		avg = float64(sum) / float64(n)
		// halves round away from zero, like the percentage
		shownAvg = math.Round(avg*10) / 10
		positivePct = math.Round(float64(positive) / float64(n) * 100)
	}

	sentiment := domain.SentimentMixed
	switch {
	case positive > 2*negative:
		sentiment = domain.SentimentPositive
	case negative > 2*positive:
		sentiment = domain.SentimentNegative
	}

	corpus := strings.ToLower(strings.Join(texts, " "))
	posFound := matchKeywords(corpus, positiveKeywords)
	negFound := matchKeywords(corpus, negativeKeywords)

	phrases := []string{"N/A"}
	if len(posFound) > 0 {
		phrases = head(posFound, maxFallbackPhrases)
	}
	pains := []string{"No major pain points identified"}
	if len(negFound) > 0 {
		pains = head(negFound, maxFallbackPainPoints)
	}
	highlights := []string{"Customers are generally satisfied with their experience"}
	if len(posFound) > 0 {
		highlights = []string{"Customers frequently mention: " + strings.Join(posFound, ", ")}
	}
	followUp := "Maintain the current level of service quality"
	if avg < lowRatingThreshold {
		followUp = "Address recurring customer concerns to lift the average rating"
	}

	return domain.AnalysisResult{
		OverallSentiment: sentiment,
		TopicSummaries: []domain.TopicSummary{{
			Topic: "Overall Experience",
			Summary: fmt.Sprintf("Based on %d reviews of %s with an average rating of %.1f stars: %d positive and %d negative reviews.",
				n, placeName, shownAvg, positive, negative),
			MentionCount: n,
		}},
		KeyInsights: []string{
			fmt.Sprintf("Average rating: %.1f/5 stars", shownAvg),
			fmt.Sprintf("%.0f%% of reviews are positive (4+ stars)", positivePct),
			fmt.Sprintf("Analyzed %d customer reviews", n),
		},
		CommonPhrases:      phrases,
		CustomerPainPoints: pains,
		PositiveHighlights: highlights,
		Recommendations: []string{
			"Configure the AI provider for a full, detailed analysis",
			followUp,
		},
	}
}

// matchKeywords returns the keywords contained in corpus, in list order.
func matchKeywords(corpus string, keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if strings.Contains(corpus, k) {
			out = append(out, k)
		}
	}
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return append([]string(nil), s...)
}
