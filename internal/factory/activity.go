package factory

import (
	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/activity"
	"github.com/ulissesgoncalvess/ferveu/internal/config"
)

// NewActivitySink returns a Kafka sink when brokers are configured and a log
// sink otherwise.
func NewActivitySink(cfg *config.Config, log zerolog.Logger) activity.Sink {
	if cfg.ActivitySinkKind == "kafka" && len(cfg.KafkaBrokers) > 0 {
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.ActivityTopic).Msg("activity stream to kafka")
		return activity.NewKafkaSink(cfg.KafkaBrokers, cfg.ActivityTopic)
	}
	return activity.NewLogSink(log)
}
