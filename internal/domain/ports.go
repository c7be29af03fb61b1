package domain

import (
	"context"
	"fmt"
	"net/http"
)

// PlacesClient is the place-search and place-detail provider.
type PlacesClient interface {
	SearchText(ctx context.Context, query string, maxResults int) ([]ProviderPlace, error)
	GetPlace(ctx context.Context, id string) (ProviderPlaceDetails, error)
}

// Generator is the generative-analysis provider.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}

type GenerationOptions struct {
	Temperature     float32
	CandidateCount  int
	MaxOutputTokens int
}

// Provider payloads, decoded from the place provider's wire format.

type ProviderPlace struct {
	ID              string     `json:"id"`
	DisplayName     *LocalText `json:"displayName,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	UserRatingCount *int       `json:"userRatingCount,omitempty"`
}

type ProviderPlaceDetails struct {
	DisplayName *LocalText       `json:"displayName,omitempty"`
	Reviews     []ProviderReview `json:"reviews,omitempty"`
}

type ProviderReview struct {
	Text         *LocalText `json:"text,omitempty"`
	OriginalText *LocalText `json:"originalText,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	PublishTime  string     `json:"publishTime,omitempty"` // RFC 3339
}

type LocalText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// ProviderStatusError is a non-2xx response from the place provider.
type ProviderStatusError struct {
	Code int
	Body string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("places: bad status %d: %s", e.Code, e.Body)
}

// Forbidden reports the permission/billing class of failure.
func (e *ProviderStatusError) Forbidden() bool { return e.Code == http.StatusForbidden }
