package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"place_insights/internal/domain"
)

const accessDeniedGuidance = "Access to the Places API was denied (HTTP 403). " +
	"Check that the Places API (New) is enabled for your Google Cloud project, " +
	"that billing is active, and that the API key is allowed to call it."

// PlaceLookup resolves a search query to the single best-matching place.
type PlaceLookup struct {
	places   domain.PlacesClient
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewPlaceLookup wires the lookup; cache may be nil.
func NewPlaceLookup(p domain.PlacesClient, c domain.Cache, ttl time.Duration) *PlaceLookup {
	return &PlaceLookup{places: p, cache: c, cacheTTL: ttl}
}

func (s *PlaceLookup) FindPlace(ctx context.Context, query string) (domain.PlaceRecord, error) {
	key := "place:" + strings.ToLower(query)
	var cached domain.PlaceRecord
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("place cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	res, err := s.places.SearchText(ctx, query, 1)
	if err != nil {
		return domain.PlaceRecord{}, classifySearchError(err)
	}
	if len(res) == 0 {
		return domain.PlaceRecord{}, domain.Errorf(domain.KindNoResults, nil, "No places found for %q", query)
	}

	rec := mapPlace(res[0], query)
	// a name borrowed from the query would leak its casing to other queries sharing the key
	named := strings.TrimSpace(localText(res[0].DisplayName)) != ""
	if s.cache != nil && s.cacheTTL > 0 && named {
		if err := s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("place cache write failed")
		}
	}
	return rec, nil
}

func classifySearchError(err error) error {
	var se *domain.ProviderStatusError
	if errors.As(err, &se) {
		if se.Forbidden() {
			return domain.Errorf(domain.KindProviderAccess, err, accessDeniedGuidance)
		}
		return domain.Errorf(domain.KindProviderRequest, err, "Places search failed (HTTP %d)", se.Code)
	}
	return domain.Errorf(domain.KindProviderRequest, err, "Places search request failed: %v", err)
}

// ReviewFetcher loads, filters and caps the reviews of one place.
type ReviewFetcher struct {
	places domain.PlacesClient
}

func NewReviewFetcher(p domain.PlacesClient) *ReviewFetcher {
	return &ReviewFetcher{places: p}
}

// FetchReviews keeps the first maxReviews substantial reviews in provider order.
// maxReviews <= 0 selects domain.DefaultMaxReviews.
func (f *ReviewFetcher) FetchReviews(ctx context.Context, placeID string, maxReviews int) (domain.ReviewBatch, error) {
	if maxReviews <= 0 {
		maxReviews = domain.DefaultMaxReviews
	}

	details, err := f.places.GetPlace(ctx, placeID)
	if err != nil {
		return domain.ReviewBatch{}, classifyDetailsError(err)
	}

	reviews := mapReviews(details.Reviews, maxReviews)
	if len(reviews) == 0 {
		return domain.ReviewBatch{}, domain.Errorf(domain.KindNoReviews, nil, "No reviews with substantial text were found for this place")
	}

	total := len(details.Reviews)
	return domain.ReviewBatch{
		Name:           localText(details.DisplayName),
		Reviews:        reviews,
		TotalFound:     len(reviews),
		TotalAvailable: total,
		LimitApplied:   total > maxReviews,
	}, nil
}

func classifyDetailsError(err error) error {
	var se *domain.ProviderStatusError
	if errors.As(err, &se) {
		return domain.Errorf(domain.KindProviderRequest, err, "Failed to fetch place reviews (HTTP %d)", se.Code)
	}
	return domain.Errorf(domain.KindProviderRequest, err, "Place details request failed: %v", err)
}
