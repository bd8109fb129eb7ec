package factory

import (
	"context"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/config"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore/postgres"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore/sqlite"
)

// storeOpenAttempts bounds the retries while the database comes up.
const storeOpenAttempts = 5

// NewSessionStore opens the remember-me store selected by
// cfg.SessionStoreDriver. Opening is retried with exponential backoff so a
// database that starts alongside the service does not abort startup.
func NewSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (sessionstore.Store, error) {
	open := func() (sessionstore.Store, error) {
		switch cfg.SessionStoreDriver {
		case "memory":
			return sessionstore.NewMemory(), nil
		case "sqlite":
			return sqlite.New(ctx, cfg.SQLitePath)
		case "postgres":
			if cfg.PostgresDSN == "" {
				return nil, backoff.Permanent(fmt.Errorf("FERVEU_POSTGRES_DSN is required when SESSION_STORE_DRIVER=postgres"))
			}
			return postgres.New(ctx, cfg.PostgresDSN)
		default:
			return nil, backoff.Permanent(fmt.Errorf("unknown SESSION_STORE_DRIVER: %s", cfg.SessionStoreDriver))
		}
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 3 * time.Second
	exp.Reset()

	var st sessionstore.Store
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		s, err := open()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("driver", cfg.SessionStoreDriver).Msg("session store unavailable")
			return err
		}
		st = s
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(exp, storeOpenAttempts-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("open %s session store: %w", cfg.SessionStoreDriver, err)
	}
	log.Debug().Str("driver", cfg.SessionStoreDriver).Msg("session store ready")
	return st, nil
}
