package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentMixed:
		return true
	}
	return false
}

type TopicSummary struct {
	Topic        string `json:"topic"`
	Summary      string `json:"summary"`
	MentionCount int    `json:"mentionCount"`
}

// AnalysisResult never carries nil slices once it leaves the analysis engine.
type AnalysisResult struct {
	OverallSentiment   Sentiment      `json:"overallSentiment"`
	TopicSummaries     []TopicSummary `json:"topicSummaries"`
	KeyInsights        []string       `json:"keyInsights"`
	CommonPhrases      []string       `json:"commonPhrases"`
	CustomerPainPoints []string       `json:"customerPainPoints"`
	PositiveHighlights []string       `json:"positiveHighlights"`
	Recommendations    []string       `json:"recommendations"`
}

// AnalysisBranch records which path produced an AnalysisResult.
type AnalysisBranch string

const (
	BranchPrimary  AnalysisBranch = "primary"
	BranchFallback AnalysisBranch = "fallback"
)

type AnalysisOutcome struct {
	Result AnalysisResult
	Branch AnalysisBranch
	// Reason is set on the fallback branch only.
	Reason string
}

// Report is the caller-facing result of analyzing one map URL.
type Report struct {
	Place           PlaceSummary   `json:"place"`
	ReviewsAnalyzed int            `json:"reviewsAnalyzed"`
	ReviewData      ReviewData     `json:"reviewData"`
	Analysis        AnalysisResult `json:"analysis"`
	AnalysisSource  AnalysisBranch `json:"analysisSource"`
	AnalyzedAt      time.Time      `json:"analyzedAt"`
}

type PlaceSummary struct {
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
}

type ReviewData struct {
	TotalFound     int  `json:"totalFound"`
	TotalAvailable int  `json:"totalAvailable"`
	LimitApplied   bool `json:"limitApplied"`
}
