// Package geo supplies device position fixes to the session.
package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// DefaultCenter is used until the first fix arrives.
var DefaultCenter = model.LatLng{Lat: -23.5505, Lng: -46.6333}

// Fix is one position report. A non-nil Err reports a device failure
// (permission denied, timeout) instead of a position.
type Fix struct {
	Position model.LatLng
	Accuracy float64
	At       time.Time
	Err      error
}

// Locator streams fixes until ctx is done; the channel is then closed.
type Locator interface {
	Watch(ctx context.Context) (<-chan Fix, error)
}

// ErrInvalidPosition is returned for coordinates outside the WGS84 range.
var ErrInvalidPosition = errors.New("coordinates out of range")

// Validate checks latitude and longitude bounds.
func Validate(p model.LatLng) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidPosition
	}
	return nil
}

// Static emits a single fixed position.
type Static struct {
	Position model.LatLng
}

func (s Static) Watch(ctx context.Context) (<-chan Fix, error) {
	ch := make(chan Fix, 1)
	ch <- Fix{Position: s.Position, At: time.Now()}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// Feed relays fixes pushed from outside (the browser, through the API) to
// every active watcher.
type Feed struct {
	mu       sync.Mutex
	watchers map[chan Fix]context.Context
}

func NewFeed() *Feed {
	return &Feed{watchers: make(map[chan Fix]context.Context)}
}

func (f *Feed) Watch(ctx context.Context) (<-chan Fix, error) {
	ch := make(chan Fix, 8)
	f.mu.Lock()
	f.watchers[ch] = ctx
	f.mu.Unlock()
	go func() {
		<-ctx.Done()
		f.mu.Lock()
		f.removeLocked(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

// removeLocked must be called with mu held.
func (f *Feed) removeLocked(ch chan Fix) {
	if _, ok := f.watchers[ch]; ok {
		delete(f.watchers, ch)
		close(ch)
	}
}

// Push delivers fix to all watchers without blocking; a watcher whose buffer
// is full misses this fix. Watchers whose context is done are dropped before
// delivery. It returns the number of watchers reached.
func (f *Feed) Push(fix Fix) int {
	if fix.At.IsZero() {
		fix.At = time.Now()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for ch, ctx := range f.watchers {
		if ctx.Err() != nil {
			f.removeLocked(ch)
			continue
		}
		select {
		case ch <- fix:
			n++
		default:
		}
	}
	return n
}
