package health

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
)

// HealthChecker is a component probe with a cached verdict.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// ServiceHealthChecker folds component verdicts into one service flag. The
// flag is up only when every component is up; with no components it is up.
type ServiceHealthChecker struct {
	up   atomic.Bool
	deps []HealthChecker
	log  zerolog.Logger

	mu       sync.Mutex
	snapshot map[string]bool
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	return &ServiceHealthChecker{deps: deps, log: log, snapshot: map[string]bool{}}
}

// IsHealthy reports the last evaluated service flag.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.up.Load() }

// Components returns a copy of the last evaluated per-component verdicts.
func (h *ServiceHealthChecker) Components() map[string]bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]bool, len(h.snapshot))
	for k, v := range h.snapshot {
		out[k] = v
	}
	return out
}

// evaluate refreshes the snapshot and returns the names that are down.
func (h *ServiceHealthChecker) evaluate() []string {
	snap := make(map[string]bool, len(h.deps))
	var down []string
	for _, c := range h.deps {
		ok := c.IsHealthy()
		snap[c.Name()] = ok
		v := 0.0
		if ok {
			v = 1
		} else {
			down = append(down, c.Name())
		}
		metrics.ComponentUp.WithLabelValues(c.Name()).Set(v)
	}
	sort.Strings(down)
	h.mu.Lock()
	h.snapshot = snap
	h.mu.Unlock()
	return down
}

// Start re-evaluates on every tick until ctx ends, logging UP/DOWN edges.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for first := true; ; first = false {
		down := h.evaluate()
		up := len(down) == 0
		if prev := h.up.Swap(up); prev != up || first {
			if up {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Strs("unhealthy", down).Msg("service health: DOWN")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
