package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestPushShowsMessage(t *testing.T) {
	q := New(time.Minute)
	defer q.Close()

	n := q.Push("+50 XP conquistados!")
	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, n.ID, cur.ID)
	assert.Equal(t, "+50 XP conquistados!", cur.Message)
	assert.Equal(t, time.Minute, cur.ExpiresAt.Sub(cur.CreatedAt))
}

func TestPushEvictsPrevious(t *testing.T) {
	q := New(time.Minute)
	defer q.Close()

	a := q.Push("A")
	b := q.Push("B")
	assert.NotEqual(t, a.ID, b.ID)
	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "B", cur.Message)
}

func TestExpiryRemovesMessage(t *testing.T) {
	q := New(20 * time.Millisecond)
	defer q.Close()

	q.Push("A")
	waitTrue(t, func() bool { _, ok := q.Current(); return !ok })
}

func TestStaleExpiryDoesNotRemoveNewerMessage(t *testing.T) {
	q := New(time.Minute)
	defer q.Close()

	a := q.Push("A")
	b := q.Push("B")
	q.expire(a.ID)

	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, b.ID, cur.ID)
}

func TestSecondMessageGetsFullTTL(t *testing.T) {
	q := New(60 * time.Millisecond)
	defer q.Close()

	q.Push("A")
	time.Sleep(40 * time.Millisecond)
	q.Push("B")
	time.Sleep(35 * time.Millisecond)

	cur, ok := q.Current()
	require.True(t, ok, "B must outlive A's original deadline")
	assert.Equal(t, "B", cur.Message)
	waitTrue(t, func() bool { _, ok := q.Current(); return !ok })
}

func TestDismiss(t *testing.T) {
	q := New(time.Minute)
	defer q.Close()

	n := q.Push("A")
	assert.False(t, q.Dismiss("other"))
	assert.True(t, q.Dismiss(n.ID))
	_, ok := q.Current()
	assert.False(t, ok)
}

func TestCloseIgnoresLaterPushes(t *testing.T) {
	q := New(time.Minute)
	q.Push("A")
	q.Close()
	q.Push("B")
	_, ok := q.Current()
	assert.False(t, ok)
}

func TestConcurrentPushes(t *testing.T) {
	q := New(5 * time.Millisecond)
	defer q.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push("x")
		}()
	}
	wg.Wait()
	waitTrue(t, func() bool { _, ok := q.Current(); return !ok })
}
