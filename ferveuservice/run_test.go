package ferveuservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/config"
	"github.com/ulissesgoncalvess/ferveu/internal/health"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
)

func TestCalculateStartupHealthTimeout(t *testing.T) {
	cases := map[int]int{0: 15, 5: 15, 8: 16, 30: 60}
	for in, want := range cases {
		if got := calculateStartupHealthTimeout(in); got != want {
			t.Fatalf("interval %d: expected %d, got %d", in, want, got)
		}
	}
}

func TestAggregateInterval(t *testing.T) {
	assert.Equal(t, time.Second, aggregateInterval(0))
	assert.Equal(t, time.Second, aggregateInterval(30*time.Second))
	assert.Equal(t, 200*time.Millisecond, aggregateInterval(200*time.Millisecond))
}

func TestSessionOptionsFromConfig(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.CheckInXP = 70
	cfg.RankingSize = 3
	cfg.DefaultLat, cfg.DefaultLng = -22.9, -43.2

	opts := sessionOptions(cfg)
	assert.Equal(t, 70, opts.Rewards.CheckIn)
	assert.Equal(t, 3, opts.RankingSize)
	assert.Equal(t, model.LatLng{Lat: -22.9, Lng: -43.2}, opts.DefaultCenter)
	assert.Equal(t, cfg.HeatRules(), opts.Rules)
}

func TestWaitUntilHealthy(t *testing.T) {
	cfg := config.NewForTesting()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := health.NewPingChecker("ok", health.PingFunc(func(context.Context) error { return nil }), zerolog.Nop(), time.Second)
	go ok.Start(ctx, 50*time.Millisecond)
	svc := health.NewServiceHealthChecker(zerolog.Nop(), ok)
	go svc.Start(ctx, 50*time.Millisecond)

	require.NoError(t, waitUntilHealthy(ctx, cfg, svc))
}

func TestWaitUntilHealthyStopsOnCancel(t *testing.T) {
	cfg := config.NewForTesting()
	ctx, cancel := context.WithCancel(context.Background())

	bad := health.NewPingChecker("bad", health.PingFunc(func(context.Context) error { return errors.New("down") }), zerolog.Nop(), time.Second)
	svc := health.NewServiceHealthChecker(zerolog.Nop(), bad)
	go svc.Start(ctx, 50*time.Millisecond)

	time.AfterFunc(100*time.Millisecond, cancel)
	assert.ErrorIs(t, waitUntilHealthy(ctx, cfg, svc), context.Canceled)
}

func TestDependenciesWireController(t *testing.T) {
	cfg := config.NewForTesting()
	ctx := context.Background()
	d, err := initDependencies(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer d.close(zerolog.Nop())

	ctrl := newController(cfg, d, zerolog.Nop())
	defer ctrl.Close()

	ok, err := ctrl.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ctrl.Login(ctx, session.LoginRequest{Name: "Leo", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, session.StateAuthenticated, ctrl.Status().State)

	hctx, cancel := context.WithCancel(ctx)
	defer cancel()
	svc := startHealthCheckers(hctx, cfg, zerolog.Nop(), d.store)
	require.NoError(t, waitUntilHealthy(hctx, cfg, svc))
}
