package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Sink receives drained events.
type Sink interface {
	Write(ctx context.Context, evts ...Event) error
	Close() error
}

// LogSink writes events to the logger at debug level.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "activity").Logger()}
}

func (s *LogSink) Write(_ context.Context, evts ...Event) error {
	for _, e := range evts {
		s.log.Debug().
			Str("kind", string(e.Kind)).
			Str("user_id", e.UserID).
			Str("venue_id", e.VenueID).
			Str("post_id", e.PostID).
			Int("heat", e.HeatValue).
			Int("xp", e.XP).
			Msg("activity")
	}
	return nil
}

func (s *LogSink) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON to a Kafka topic, keyed by user id.
type KafkaSink struct {
	w messageWriter
}

// NewKafkaSink builds a hash-balanced writer for topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{w: w}
}

func (s *KafkaSink) Write(ctx context.Context, evts ...Event) error {
	msgs := make([]kafka.Message, 0, len(evts))
	for _, e := range evts {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.UserID), Value: b, Time: e.At})
	}
	return s.w.WriteMessages(ctx, msgs...)
}

func (s *KafkaSink) Close() error { return s.w.Close() }
