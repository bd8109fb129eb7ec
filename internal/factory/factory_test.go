package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/activity"
	"github.com/ulissesgoncalvess/ferveu/internal/config"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore/sqlite"
)

func TestNewSessionStore_Memory(t *testing.T) {
	cfg := config.NewForTesting()
	st, err := NewSessionStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()
	_, ok := st.(*sessionstore.Memory)
	assert.True(t, ok)
}

func TestNewSessionStore_SQLite(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SessionStoreDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "session.db")
	st, err := NewSessionStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()
	_, ok := st.(*sqlite.Store)
	assert.True(t, ok)
}

func TestNewSessionStore_PostgresWithoutDSNFailsFast(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SessionStoreDriver = "postgres"
	_, err := NewSessionStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestNewSessionStore_UnknownDriver(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SessionStoreDriver = "redis"
	_, err := NewSessionStore(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestNewPlacesProvider(t *testing.T) {
	cfg := config.NewForTesting()
	_, ok := NewPlacesProvider(cfg, zerolog.Nop()).(places.Static)
	assert.True(t, ok)

	cfg.PlacesProvider = "google"
	cfg.PlacesAPIKey = "k"
	g, ok := NewPlacesProvider(cfg, zerolog.Nop()).(places.Guarded)
	require.True(t, ok)
	assert.Equal(t, "places", g.Breaker.Name())
}

func TestNewAdvisor(t *testing.T) {
	cfg := config.NewForTesting()
	require.NotNil(t, NewAdvisor(cfg, zerolog.Nop()))
	cfg.StrategyProvider = "gemini"
	cfg.GeminiAPIKey = "k"
	require.NotNil(t, NewAdvisor(cfg, zerolog.Nop()))
}

func TestNewActivitySink(t *testing.T) {
	cfg := config.NewForTesting()
	_, ok := NewActivitySink(cfg, zerolog.Nop()).(*activity.LogSink)
	assert.True(t, ok)

	cfg.ActivitySinkKind = "kafka"
	cfg.KafkaBrokers = []string{"localhost:9092"}
	s := NewActivitySink(cfg, zerolog.Nop())
	defer s.Close()
	_, ok = s.(*activity.KafkaSink)
	assert.True(t, ok)
}
