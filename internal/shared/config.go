package shared

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	HTTPAddr       string `mapstructure:"http_addr"`
	MetricsAddr    string `mapstructure:"metrics_addr"`
	StaticDir      string `mapstructure:"static_dir"`
	CORSOrigins    string `mapstructure:"cors_origins"` // comma separated
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`

	PlacesKey  string `mapstructure:"google_places_api_key"`
	PlacesBase string `mapstructure:"places_base_url"`
	PlacesRPS  int    `mapstructure:"places_rps"`
	MaxReviews int    `mapstructure:"max_reviews"`

	AIProvider string `mapstructure:"ai_provider"`
	AIKey      string `mapstructure:"ai_api_key"`
	AIBase     string `mapstructure:"ai_base_url"`
	AIModel    string `mapstructure:"ai_model"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisPass string `mapstructure:"redis_password"`
	RedisDB   int    `mapstructure:"redis_db"`
	CacheTTLS int    `mapstructure:"cache_ttl_seconds"`

	BatchWorkers int `mapstructure:"batch_workers"`
}

// Load reads ./config.yaml when present; environment variables (upper-cased keys) win.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	v.SetDefault("app_env", "prod")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("request_timeout_seconds", 60)
	v.SetDefault("google_places_api_key", "")
	v.SetDefault("places_base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places_rps", 5)
	v.SetDefault("max_reviews", 50)
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("ai_api_key", "")
	v.SetDefault("ai_base_url", "")
	v.SetDefault("ai_model", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl_seconds", 900)
	v.SetDefault("batch_workers", 4)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}

	if c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty")
	}
	if c.AIEnabled() && c.AIKey == "" {
		log.Warn().Str("provider", c.AIProvider).Msg("AI_API_KEY is empty; analyses will use the fallback")
	}
	return c, nil
}

// AIEnabled reports whether a generative provider is configured at all.
func (c Config) AIEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.AIProvider)) {
	case "", "none", "off":
		return false
	}
	return true
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLS) * time.Second
}

func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
