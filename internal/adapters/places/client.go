// internal/adapters/places/client.go
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/domain"
)

const DefaultBaseURL = "https://places.googleapis.com/v1"

const (
	searchFieldMask  = "places.id,places.displayName,places.rating,places.userRatingCount"
	detailsFieldMask = "displayName,reviews"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.base = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(key string, rps int, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, eris.New("places: API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base: DefaultBaseURL,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ---- Public API ----

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
}

type searchTextResponse struct {
	Places []domain.ProviderPlace `json:"places"`
}

func (c *Client) SearchText(ctx context.Context, query string, maxResults int) ([]domain.ProviderPlace, error) {
	body, err := json.Marshal(searchTextRequest{TextQuery: query, MaxResultCount: maxResults})
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal request")
	}
	var out searchTextResponse
	if err := c.do(ctx, http.MethodPost, "/places:searchText", "searchText", searchFieldMask, body, &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

func (c *Client) GetPlace(ctx context.Context, id string) (domain.ProviderPlaceDetails, error) {
	var out domain.ProviderPlaceDetails
	path := "/places/" + url.PathEscape(id)
	return out, c.do(ctx, http.MethodGet, path, "placeDetails", detailsFieldMask, nil, &out)
}

// ---- Internals ----

// do performs one request with client-side pacing and decodes a 2xx JSON body into out.
// There are no retries; a failed call is final.
func (c *Client) do(ctx context.Context, method, path, endpoint, fieldMask string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return eris.Wrap(err, "places: rate limiter")
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}
	req.Header.Set("X-Goog-Api-Key", c.key)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "place-insights/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", endpoint, 0, time.Since(start))
		return eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.ProviderStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "places: decode response")
	}
	return nil
}
