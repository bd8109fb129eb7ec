package factory

import (
	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/breaker"
	"github.com/ulissesgoncalvess/ferveu/internal/config"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/strategy"
)

func breakerConfig(cfg *config.Config) breaker.Config {
	return breaker.Config{MaxFailures: cfg.BreakerMaxFailures, ResetTimeout: cfg.BreakerResetTimeout}
}

// NewPlacesProvider returns the places lookup selected by cfg.PlacesProvider.
// Remote providers sit behind a circuit breaker.
func NewPlacesProvider(cfg *config.Config, log zerolog.Logger) places.Provider {
	switch cfg.PlacesProvider {
	case "google":
		g := places.NewGoogle(cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PlacesMaxResults, cfg.ProviderTimeout, places.NewMapper(cfg.HeatRules()))
		return places.Guarded{Provider: g, Breaker: breaker.New("places", breakerConfig(cfg), log)}
	case "static":
		return places.Static{Rules: cfg.HeatRules()}
	default:
		log.Warn().Str("provider", cfg.PlacesProvider).Msg("unknown places provider; using static")
		return places.Static{Rules: cfg.HeatRules()}
	}
}

// NewAdvisor returns the strategy advisor backed by the generator selected by
// cfg.StrategyProvider.
func NewAdvisor(cfg *config.Config, log zerolog.Logger) *strategy.Advisor {
	switch cfg.StrategyProvider {
	case "gemini":
		gen := strategy.NewGemini(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout)
		return strategy.NewAdvisor(gen, breaker.New("strategy", breakerConfig(cfg), log), cfg.ProviderTimeout, log)
	case "static":
		return strategy.NewAdvisor(strategy.Static{}, nil, cfg.ProviderTimeout, log)
	default:
		log.Warn().Str("provider", cfg.StrategyProvider).Msg("unknown strategy provider; using static")
		return strategy.NewAdvisor(strategy.Static{}, nil, cfg.ProviderTimeout, log)
	}
}
