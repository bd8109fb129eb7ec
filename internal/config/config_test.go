package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ferveuKeys = []string{
	"FERVEU_SESSION_STORE_DRIVER",
	"FERVEU_POSTGRES_DSN",
	"FERVEU_SQLITE_PATH",
	"FERVEU_PLACES_PROVIDER",
	"FERVEU_PLACES_API_KEY",
	"FERVEU_STRATEGY_PROVIDER",
	"FERVEU_GEMINI_API_KEY",
	"FERVEU_KAFKA_BROKERS",
	"FERVEU_HEAT_MEDIUM_ABOVE",
	"FERVEU_HEAT_HIGH_ABOVE",
	"FERVEU_DECAY_INTERVAL",
}

func unsetFerveuEnv() {
	for _, k := range ferveuKeys {
		_ = os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	unsetFerveuEnv()
	defer unsetFerveuEnv()

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.SessionStoreDriver)
	assert.True(t, strings.HasSuffix(cfg.SQLitePath, "session.db"))
	assert.Equal(t, "static", cfg.PlacesProvider)
	assert.Equal(t, "static", cfg.StrategyProvider)
	assert.Equal(t, "log", cfg.ActivitySinkKind)
	assert.Equal(t, 10*time.Second, cfg.DecayInterval)
	assert.Equal(t, 3*time.Second, cfg.NotificationTTL)
	assert.Equal(t, 2*time.Second, cfg.AuthDelay)
	assert.Equal(t, 80, cfg.HeatRules().HighAbove)
	assert.Equal(t, 120, cfg.Rewards().Post)
}

func TestResolveDefaultsAutoDetectsProviders(t *testing.T) {
	unsetFerveuEnv()
	_ = os.Setenv("FERVEU_POSTGRES_DSN", "postgres://u:p@localhost/ferveu")
	_ = os.Setenv("FERVEU_PLACES_API_KEY", "k1")
	_ = os.Setenv("FERVEU_GEMINI_API_KEY", "k2")
	_ = os.Setenv("FERVEU_KAFKA_BROKERS", "localhost:9092,localhost:9093")
	defer unsetFerveuEnv()

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.SessionStoreDriver)
	assert.Equal(t, "google", cfg.PlacesProvider)
	assert.Equal(t, "gemini", cfg.StrategyProvider)
	assert.Equal(t, "kafka", cfg.ActivitySinkKind)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.KafkaBrokers)
}

func TestResolveDefaultsRejectsBadValues(t *testing.T) {
	cfg := NewForTesting()
	cfg.SessionStoreDriver = "redis"
	assert.Error(t, cfg.ResolveDefaults())

	cfg = NewForTesting()
	cfg.SessionStoreDriver = "postgres"
	assert.Error(t, cfg.ResolveDefaults(), "postgres without DSN")

	cfg = NewForTesting()
	cfg.HeatMediumAbove = 80
	cfg.HeatHighAbove = 50
	assert.Error(t, cfg.ResolveDefaults())

	cfg = NewForTesting()
	cfg.PlacesProvider = "osm"
	assert.Error(t, cfg.ResolveDefaults())

	cfg = NewForTesting()
	cfg.CheckInXP = 0
	assert.Error(t, cfg.ResolveDefaults())
}

func TestNewForTestingIsValid(t *testing.T) {
	cfg := NewForTesting()
	require.NoError(t, cfg.ResolveDefaults())
	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}
