package app

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"place_insights/internal/domain"
)

// minReviewLength is the exclusive lower bound, in characters, for a substantial review.
const minReviewLength = 10

/********** tiny helpers **********/

func localText(t *domain.LocalText) string {
	if t == nil {
		return ""
	}
	return t.Text
}

// firstNonEmpty returns the first candidate with text, or "".
func firstNonEmpty(candidates ...*domain.LocalText) string {
	for _, c := range candidates {
		if s := localText(c); s != "" {
			return s
		}
	}
	return ""
}

func substantial(text string) bool {
	return utf8.RuneCountInString(text) > minReviewLength
}

/********** place mapper **********/

// mapPlace builds a PlaceRecord; a missing display name falls back to the query.
func mapPlace(p domain.ProviderPlace, query string) domain.PlaceRecord {
	name := strings.TrimSpace(localText(p.DisplayName))
	if name == "" {
		name = query
	}
	return domain.PlaceRecord{
		ID:          p.ID,
		Name:        name,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
	}
}

/********** reviews mapper **********/

// mapReview prefers the translated text and falls back to the original-language text.
func mapReview(r domain.ProviderReview) domain.Review {
	rv := domain.Review{
		Text:   firstNonEmpty(r.Text, r.OriginalText),
		Rating: r.Rating,
	}
	if r.PublishTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, r.PublishTime); err == nil {
			rv.Time = &t
		} else {
			log.Debug().Err(err).Str("publishTime", r.PublishTime).Msg("unparseable review time")
		}
	}
	return rv
}

// mapReviews keeps substantial reviews in provider order, at most max of them.
func mapReviews(in []domain.ProviderReview, max int) []domain.Review {
	out := make([]domain.Review, 0, min(len(in), max))
	for _, r := range in {
		if len(out) == max {
			break
		}
		rv := mapReview(r)
		if !substantial(rv.Text) {
			continue
		}
		out = append(out, rv)
	}
	return out
}
