package activity

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Forwarder drains a bus into a sink, batching whatever is buffered.
type Forwarder struct {
	bus      *Bus
	sink     Sink
	log      zerolog.Logger
	maxBatch int
	timeout  time.Duration
}

func NewForwarder(bus *Bus, sink Sink, log zerolog.Logger) *Forwarder {
	return &Forwarder{
		bus:      bus,
		sink:     sink,
		log:      log.With().Str("component", "activity_forwarder").Logger(),
		maxBatch: 64,
		timeout:  5 * time.Second,
	}
}

// Run blocks until ctx is done. Events still buffered at shutdown are
// flushed with a fresh timeout.
func (f *Forwarder) Run(ctx context.Context) {
	ch := f.bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			f.flush(f.drain(nil, ch))
			return
		case e := <-ch:
			f.flush(f.drain([]Event{e}, ch))
		}
	}
}

func (f *Forwarder) drain(batch []Event, ch <-chan Event) []Event {
	for len(batch) < f.maxBatch {
		select {
		case e := <-ch:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

func (f *Forwarder) flush(batch []Event) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	if err := f.sink.Write(ctx, batch...); err != nil {
		f.log.Error().Stack().Err(err).Int("events", len(batch)).Msg("activity write failed")
	}
}
