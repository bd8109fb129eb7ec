// Package notify holds the single-slot notification queue: a new message
// evicts the previous one and each message expires on its own timer.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// DefaultTTL is how long a message stays visible.
const DefaultTTL = 3 * time.Second

// Queue is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *model.Notification
	timer   *time.Timer
	closed  bool
}

// New returns a queue whose messages expire after ttl (DefaultTTL when ttl <= 0).
func New(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, now: time.Now}
}

// Push replaces the visible message and schedules its expiry.
// Pushing on a closed queue is a no-op.
func (q *Queue) Push(msg string) model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	n := model.Notification{
		ID:        uuid.NewString(),
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}
	if q.closed {
		return n
	}
	if q.timer != nil {
		q.timer.Stop()
	}
	q.current = &n
	id := n.ID
	q.timer = time.AfterFunc(q.ttl, func() { q.expire(id) })
	return n
}

// expire removes the message only if it is still the one identified by id.
func (q *Queue) expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current != nil && q.current.ID == id {
		q.current = nil
		q.timer = nil
	}
}

// Current returns the visible message, if any.
func (q *Queue) Current() (model.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return model.Notification{}, false
	}
	return *q.current, true
}

// Dismiss removes the message with the given id. It reports whether a
// message was removed.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil || q.current.ID != id {
		return false
	}
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.current = nil
	return true
}

// Clear drops the visible message and its timer.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.current = nil
}

// Close stops the pending timer; later pushes are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.Clear()
}
