package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore/storetest"
)

func TestPostgresStoreSuite(t *testing.T) {
	dsn := os.Getenv("FERVEU_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FERVEU_TEST_POSTGRES_DSN not set")
	}
	storetest.Run(t, func(t *testing.T) sessionstore.Store {
		s, err := New(context.Background(), dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
