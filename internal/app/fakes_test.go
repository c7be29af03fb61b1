package app_test

import (
	"context"
	"encoding/json"
	"errors"

	"place_insights/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	places     []domain.ProviderPlace
	searchErr  error
	details    domain.ProviderPlaceDetails
	detailsErr error

	searches    int
	lastQuery   string
	lastMax     int
	lastPlaceID string
}

func (f *fakePlaces) SearchText(ctx context.Context, query string, maxResults int) ([]domain.ProviderPlace, error) {
	f.searches++
	f.lastQuery, f.lastMax = query, maxResults
	return f.places, f.searchErr
}

func (f *fakePlaces) GetPlace(ctx context.Context, id string) (domain.ProviderPlaceDetails, error) {
	f.lastPlaceID = id
	return f.details, f.detailsErr
}

// fakeCache round-trips values through JSON like the Redis adapter.
type fakeCache struct {
	store  map[string][]byte
	getErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

type fakeGenerator struct {
	out   string
	err   error
	panic bool

	calls      int
	lastPrompt string
	lastOpts   domain.GenerationOptions
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	g.calls++
	g.lastPrompt, g.lastOpts = prompt, opts
	if g.panic {
		panic("provider exploded")
	}
	return g.out, g.err
}

var errBoom = errors.New("boom")

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func text(s string) *domain.LocalText { return &domain.LocalText{Text: s} }

func reviewsWithRatings(ratings ...int) []domain.Review {
	out := make([]domain.Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, domain.Review{Text: "A perfectly ordinary visit overall", Rating: ptr(r)})
	}
	return out
}
