// Package sessionstore persists small values across process restarts. The
// only client is remember-me: the signed-in identity stored under a fixed key.
// Implementations live under internal/sessionstore/<driver>/.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Key is the fixed key holding the remembered session.
const Key = "ferveu_session"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("session store: key not found")

// Store is a string-keyed byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Remembered is the persisted identity.
type Remembered struct {
	UserID  string    `json:"userId"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// Save writes r under Key.
func Save(ctx context.Context, s Store, r Remembered) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode remembered session: %w", err)
	}
	return s.Put(ctx, Key, b)
}

// Load reads the remembered identity. It returns ErrNotFound when nothing
// was saved; a corrupt value is reported as an error.
func Load(ctx context.Context, s Store) (Remembered, error) {
	var r Remembered
	b, err := s.Get(ctx, Key)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("decode remembered session: %w", err)
	}
	return r, nil
}

// Forget removes the remembered identity. Missing keys are not an error.
func Forget(ctx context.Context, s Store) error {
	if err := s.Delete(ctx, Key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
