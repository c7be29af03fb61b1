package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"place_insights/internal/adapters/observability"
	"place_insights/internal/domain"
)

// Analyzer runs the URL → place → reviews → analysis pipeline for one request.
type Analyzer struct {
	lookup     *PlaceLookup
	fetcher    *ReviewFetcher
	engine     *AnalysisEngine
	maxReviews int
	now        func() time.Time
}

type AnalyzerOptions struct {
	MaxReviews int           // <= 0 selects domain.DefaultMaxReviews
	CacheTTL   time.Duration // place lookup cache; ignored when cache is nil
}

// NewAnalyzer wires the pipeline; gen and cache may be nil.
func NewAnalyzer(p domain.PlacesClient, gen domain.Generator, cache domain.Cache, opts AnalyzerOptions) *Analyzer {
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = domain.DefaultMaxReviews
	}
	return &Analyzer{
		lookup:     NewPlaceLookup(p, cache, opts.CacheTTL),
		fetcher:    NewReviewFetcher(p),
		engine:     NewAnalysisEngine(gen),
		maxReviews: opts.MaxReviews,
		now:        time.Now,
	}
}

// AnalyzeURL runs every stage in order. A failure in resolution, lookup or
// review fetching aborts the run and is returned unchanged; analysis never fails.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (domain.Report, error) {
	start := a.now()

	query, err := ResolveQuery(rawURL)
	if err != nil {
		return domain.Report{}, a.abort("resolve", err)
	}

	place, err := a.lookup.FindPlace(ctx, query)
	if err != nil {
		return domain.Report{}, a.abort("lookup", err)
	}

	batch, err := a.fetcher.FetchReviews(ctx, place.ID, a.maxReviews)
	if err != nil {
		return domain.Report{}, a.abort("reviews", err)
	}

	outcome := a.engine.Analyze(ctx, place.Name, batch.Reviews)

	log.Info().
		Str("query", query).
		Str("place_id", place.ID).
		Int("reviews", batch.TotalFound).
		Int("available", batch.TotalAvailable).
		Str("branch", string(outcome.Branch)).
		Dur("duration", a.now().Sub(start)).
		Msg("analysis complete")

	return domain.Report{
		Place: domain.PlaceSummary{
			Name:        place.Name,
			Rating:      place.Rating,
			ReviewCount: place.ReviewCount,
		},
		ReviewsAnalyzed: batch.TotalFound,
		ReviewData: domain.ReviewData{
			TotalFound:     batch.TotalFound,
			TotalAvailable: batch.TotalAvailable,
			LimitApplied:   batch.LimitApplied,
		},
		Analysis:       outcome.Result,
		AnalysisSource: outcome.Branch,
		AnalyzedAt:     a.now().UTC(),
	}, nil
}

func (a *Analyzer) abort(stage string, err error) error {
	kind := domain.KindOf(err)
	log.Info().Err(err).Str("stage", stage).Str("kind", string(kind)).Msg("analysis aborted")
	observability.ObservePipelineFailure(string(kind))
	return err
}
