package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu   sync.Mutex
	evts []Event
	err  error
}

func (s *recordingSink) Write(_ context.Context, evts ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evts = append(s.evts, evts...)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.evts)
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}

func TestPublishNonBlocking(t *testing.T) {
	b := NewBus(1)
	assert.True(t, b.Publish(Event{Kind: KindLike}))
	assert.False(t, b.Publish(Event{Kind: KindLike}), "full buffer drops")

	var nilBus *Bus
	assert.False(t, nilBus.Publish(Event{}))
}

func TestForwarderDeliversAndFlushesOnShutdown(t *testing.T) {
	b := NewBus(16)
	sink := &recordingSink{}
	f := NewForwarder(b, sink, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { f.Run(ctx); close(done) }()

	for i := 0; i < 3; i++ {
		require.True(t, b.Publish(Event{Kind: KindCheckIn, VenueID: "p1"}))
	}
	waitTrue(t, func() bool { return sink.count() == 3 })

	cancel()
	<-done
}

func TestForwarderSurvivesSinkErrors(t *testing.T) {
	b := NewBus(4)
	sink := &recordingSink{err: errors.New("broker down")}
	f := NewForwarder(b, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	b.Publish(Event{Kind: KindPost})
	b.Publish(Event{Kind: KindPost})
	waitTrue(t, func() bool { return sink.count() == 2 })
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSinkEncodesEvents(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSink{w: w}
	at := time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)
	require.NoError(t, s.Write(context.Background(), Event{Kind: KindLevelUp, UserID: "u1", Level: "Esquentando", At: at}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "u1", string(w.msgs[0].Key))
	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, KindLevelUp, got.Kind)
	assert.Equal(t, "Esquentando", got.Level)
}

func TestNewKafkaSinkConfiguresWriter(t *testing.T) {
	s := NewKafkaSink([]string{"localhost:9092"}, "ferveu.activity")
	kw, ok := s.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "ferveu.activity", kw.Topic)
	require.NoError(t, s.Close())
}
