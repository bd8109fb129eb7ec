package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
)

// Run exercises a minimal compliance suite against a sessionstore.Store.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) sessionstore.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	key := "k-" + uuid.NewString()

	if _, err := s.Get(ctx, key); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, key, []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, err := s.Get(ctx, key); err != nil || string(got) != "one" {
		t.Fatalf("Get: got=%q err=%v", got, err)
	}
	if err := s.Put(ctx, key, []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, err := s.Get(ctx, key); err != nil || string(got) != "two" {
		t.Fatalf("Get after overwrite: got=%q err=%v", got, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("Get after delete: want ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	// Remembered session round trip
	rec := sessionstore.Remembered{
		UserID:  uuid.NewString(),
		Name:    "Leo Rolê",
		Email:   "leo@ferveu.app",
		Token:   "tok",
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := sessionstore.Save(ctx, s, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := sessionstore.Load(ctx, s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != rec.Name || got.Token != rec.Token || !got.SavedAt.Equal(rec.SavedAt) {
		t.Fatalf("Load mismatch: %+v vs %+v", got, rec)
	}
	if err := sessionstore.Forget(ctx, s); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, err := sessionstore.Load(ctx, s); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("Load after Forget: want ErrNotFound, got %v", err)
	}
}
