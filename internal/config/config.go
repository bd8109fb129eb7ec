package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/core/progression"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the ferveu service.
// Environment variables are parsed with the FERVEU_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP
	HTTPPort    int      `envconfig:"HTTP_PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Heat machine
	HeatMediumAbove int `envconfig:"HEAT_MEDIUM_ABOVE" default:"50"`
	HeatHighAbove   int `envconfig:"HEAT_HIGH_ABOVE" default:"80"`
	CheckInHeat     int `envconfig:"CHECKIN_HEAT" default:"5"`
	PostHeat        int `envconfig:"POST_HEAT" default:"15"`
	DecayHigh       int `envconfig:"DECAY_HIGH" default:"2"`
	DecayBase       int `envconfig:"DECAY_BASE" default:"1"`

	DecayInterval time.Duration `envconfig:"DECAY_INTERVAL" default:"10s"`

	// Progression
	CheckInXP int `envconfig:"CHECKIN_XP" default:"50"`
	PostXP    int `envconfig:"POST_XP" default:"120"`

	// Presentation
	NotificationTTL time.Duration `envconfig:"NOTIFICATION_TTL" default:"3s"`
	PanelRadiusDeg  float64       `envconfig:"PANEL_RADIUS_DEG" default:"0.02"`
	RankingSize     int           `envconfig:"RANKING_SIZE" default:"5"`

	// Auth
	AuthDelay  time.Duration `envconfig:"AUTH_DELAY" default:"2s"`
	AuthSecret string        `envconfig:"AUTH_SECRET" default:"ferveu-dev-secret"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	// Session persistence: auto | sqlite | postgres | memory
	SessionStoreDriver string `envconfig:"SESSION_STORE_DRIVER" default:"auto"`
	SQLitePath         string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN        string `envconfig:"POSTGRES_DSN" default:""`

	// Places lookup: auto | google | static
	PlacesProvider     string `envconfig:"PLACES_PROVIDER" default:"auto"`
	PlacesAPIKey       string `envconfig:"PLACES_API_KEY" default:""`
	PlacesBaseURL      string `envconfig:"PLACES_BASE_URL" default:"https://places.googleapis.com"`
	PlacesRadiusMeters int    `envconfig:"PLACES_RADIUS_METERS" default:"2000"`
	PlacesMaxResults   int    `envconfig:"PLACES_MAX_RESULTS" default:"20"`

	// Text generation: auto | gemini | static
	StrategyProvider string `envconfig:"STRATEGY_PROVIDER" default:"auto"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel      string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	GeminiBaseURL    string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`

	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`

	// Circuit breaker for external providers
	BreakerMaxFailures  int           `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerResetTimeout time.Duration `envconfig:"BREAKER_RESET_TIMEOUT" default:"30s"`

	// Geolocation fallback when the client never pushes a fix
	DefaultLat float64 `envconfig:"DEFAULT_LAT" default:"-23.5505"`
	DefaultLng float64 `envconfig:"DEFAULT_LNG" default:"-46.6333"`

	// Activity stream
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS" default:""`
	ActivityTopic    string   `envconfig:"ACTIVITY_TOPIC" default:"ferveu.activity"`
	ActivityBuffer   int      `envconfig:"ACTIVITY_BUFFER" default:"256"`
	ActivitySinkKind string   `ignored:"true"`

	// Health
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults derives "auto" drivers and validates ranges.
func (c *Config) ResolveDefaults() error {
	switch c.SessionStoreDriver {
	case "", "auto":
		if c.PostgresDSN != "" {
			c.SessionStoreDriver = "postgres"
		} else {
			c.SessionStoreDriver = "sqlite"
		}
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported SESSION_STORE_DRIVER: %s", c.SessionStoreDriver)
	}
	if c.SessionStoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("SESSION_STORE_DRIVER=postgres requires POSTGRES_DSN")
	}
	if c.SessionStoreDriver == "sqlite" && c.SQLitePath == "" {
		c.SQLitePath = defaultSQLitePath()
	}

	switch c.PlacesProvider {
	case "", "auto":
		if c.PlacesAPIKey != "" {
			c.PlacesProvider = "google"
		} else {
			c.PlacesProvider = "static"
		}
	case "google", "static":
	default:
		return fmt.Errorf("unsupported PLACES_PROVIDER: %s", c.PlacesProvider)
	}

	switch c.StrategyProvider {
	case "", "auto":
		if c.GeminiAPIKey != "" {
			c.StrategyProvider = "gemini"
		} else {
			c.StrategyProvider = "static"
		}
	case "gemini", "static":
	default:
		return fmt.Errorf("unsupported STRATEGY_PROVIDER: %s", c.StrategyProvider)
	}

	c.KafkaBrokers = nonEmpty(c.KafkaBrokers)
	if len(c.KafkaBrokers) > 0 {
		c.ActivitySinkKind = "kafka"
	} else {
		c.ActivitySinkKind = "log"
	}

	if err := c.HeatRules().Validate(); err != nil {
		return err
	}
	if c.CheckInXP <= 0 || c.PostXP <= 0 {
		return fmt.Errorf("xp rewards must be positive")
	}
	if c.PanelRadiusDeg <= 0 {
		return fmt.Errorf("PANEL_RADIUS_DEG must be positive")
	}
	if c.DecayInterval <= 0 {
		return fmt.Errorf("DECAY_INTERVAL must be positive")
	}
	if c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: FERVEU_HTTP_PORT, FERVEU_PLACES_API_KEY
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FERVEU", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("session_store", cfg.SessionStoreDriver).
		Str("places_provider", cfg.PlacesProvider).
		Str("strategy_provider", cfg.StrategyProvider).
		Str("activity_sink", cfg.ActivitySinkKind).
		Int("heat_medium_above", cfg.HeatMediumAbove).
		Int("heat_high_above", cfg.HeatHighAbove).
		Dur("decay_interval", cfg.DecayInterval).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  8080,
		CORSOrigins:               []string{"*"},
		HeatMediumAbove:           50,
		HeatHighAbove:             80,
		CheckInHeat:               5,
		PostHeat:                  15,
		DecayHigh:                 2,
		DecayBase:                 1,
		DecayInterval:             time.Hour,
		CheckInXP:                 50,
		PostXP:                    120,
		NotificationTTL:           time.Minute,
		PanelRadiusDeg:            0.02,
		RankingSize:               5,
		AuthDelay:                 0,
		AuthSecret:                "test-secret",
		SessionTTL:                time.Hour,
		SessionStoreDriver:        "memory",
		PlacesProvider:            "static",
		PlacesRadiusMeters:        2000,
		PlacesMaxResults:          20,
		StrategyProvider:          "static",
		GeminiModel:               "gemini-3-flash-preview",
		ProviderTimeout:           time.Second,
		BreakerMaxFailures:        5,
		BreakerResetTimeout:       time.Second,
		DefaultLat:                -23.5505,
		DefaultLng:                -46.6333,
		ActivityTopic:             "ferveu.activity",
		ActivityBuffer:            64,
		ActivitySinkKind:          "log",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
	return cfg
}

// HeatRules returns the heat machine constants.
func (c *Config) HeatRules() heat.Rules {
	return heat.Rules{
		MediumAbove:  c.HeatMediumAbove,
		HighAbove:    c.HeatHighAbove,
		CheckInDelta: c.CheckInHeat,
		PostDelta:    c.PostHeat,
		HighDecay:    c.DecayHigh,
		BaseDecay:    c.DecayBase,
	}
}

// Rewards returns the XP granted per action.
func (c *Config) Rewards() progression.Rewards {
	return progression.Rewards{CheckIn: c.CheckInXP, Post: c.PostXP}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
