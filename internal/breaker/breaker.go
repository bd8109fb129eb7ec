// Package breaker guards calls to external collaborators with a circuit
// breaker. After MaxFailures consecutive failures the breaker opens and
// fast-fails until ResetTimeout elapses; the next call is then let through as
// a single half-open trial.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
)

// State is the breaker position.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return Open
	case gobreaker.StateHalfOpen:
		return HalfOpen
	default:
		return Closed
	}
}

// ErrOpen is returned without calling the operation while the breaker is open
// or while a half-open trial is already in flight.
var ErrOpen = errors.New("circuit breaker is open")

// Config tunes the breaker.
type Config struct {
	MaxFailures  int
	ResetTimeout time.Duration
}

// Breaker is safe for concurrent use.
type Breaker struct {
	name string
	log  zerolog.Logger
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// New returns a closed breaker.
func New(name string, cfg Config, log zerolog.Logger) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	b := &Breaker{
		name: name,
		log:  log.With().Str("component", "breaker").Str("breaker", name).Logger(),
	}
	maxFailures := uint32(cfg.MaxFailures)
	b.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			f, t := fromGobreaker(from), fromGobreaker(to)
			b.log.Info().Str("from", f.String()).Str("to", t.String()).Msg("breaker state change")
			metrics.BreakerStateChanges.WithLabelValues(b.name, t.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			var c canceled
			return err == nil || errors.As(err, &c)
		},
	})
	return b
}

// Execute runs op unless the breaker is open. Context cancellation is not
// counted as a failure.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		err := op(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil {
			return struct{}{}, canceled{err}
		}
		b.log.Warn().Err(err).Msg("operation failed")
		return struct{}{}, err
	})
	var c canceled
	switch {
	case errors.As(err, &c):
		return c.err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrOpen
	}
	return err
}

// canceled marks an error produced after the caller gave up.
type canceled struct{ err error }

func (c canceled) Error() string { return c.err.Error() }
func (c canceled) Unwrap() error { return c.err }

// State returns the current position.
func (b *Breaker) State() State { return fromGobreaker(b.cb.State()) }

// Name returns the breaker name.
func (b *Breaker) Name() string { return b.name }
