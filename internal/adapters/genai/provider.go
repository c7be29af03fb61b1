package genai

import (
	"strings"

	"github.com/rotisserie/eris"

	"place_insights/internal/domain"
)

type Config struct {
	Provider string // openai|gemini|anthropic|none
	APIKey   string
	BaseURL  string
	Model    string
}

// New returns the configured generator. A nil generator with a nil error means
// generative analysis is disabled and every analysis takes the fallback path.
func New(cfg Config) (domain.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none", "off":
		return nil, nil
	case "openai", "gemini":
		g, err := NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "anthropic":
		g, err := NewAnthropic(cfg.APIKey, cfg.BaseURL, cfg.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, eris.Errorf("genai: unknown provider %q", cfg.Provider)
	}
}
