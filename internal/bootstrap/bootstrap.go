package bootstrap

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"place_insights/internal/adapters/genai"
	"place_insights/internal/adapters/places"
	redisad "place_insights/internal/adapters/redis"
	"place_insights/internal/app"
	"place_insights/internal/domain"
	"place_insights/internal/shared"
)

// NewAnalyzer builds the pipeline from cfg. Only a missing Places key is fatal:
// a broken AI provider selects the fallback and an unreachable Redis disables
// the place cache. The returned func releases the cache connection.
func NewAnalyzer(ctx context.Context, cfg shared.Config) (*app.Analyzer, func(), error) {
	pc, err := places.New(cfg.PlacesKey, cfg.PlacesRPS, places.WithBaseURL(cfg.PlacesBase))
	if err != nil {
		return nil, nil, err
	}

	gen, err := genai.New(genai.Config{
		Provider: cfg.AIProvider, APIKey: cfg.AIKey, BaseURL: cfg.AIBase, Model: cfg.AIModel,
	})
	if err != nil {
		// an unusable AI provider only downgrades analyses to the fallback
		log.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("AI provider disabled")
	}

	closeFn := func() {}
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; place cache disabled")
			_ = rc.Close()
		} else {
			cache = rc
			closeFn = func() { _ = rc.Close() }
		}
	}

	return app.NewAnalyzer(pc, gen, cache, app.AnalyzerOptions{
		MaxReviews: cfg.MaxReviews,
		CacheTTL:   cfg.CacheTTL(),
	}), closeFn, nil
}
