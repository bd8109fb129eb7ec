// Package activity publishes session activity (actions, posts, likes,
// level-ups) to an in-process bus that is drained into a sink.
package activity

import (
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
)

// Kind is the type of activity event.
type Kind string

const (
	KindCheckIn Kind = "checkin"
	KindPost    Kind = "post"
	KindLike    Kind = "like"
	KindLevelUp Kind = "level_up"
	KindLogin   Kind = "login"
	KindLogout  Kind = "logout"
)

// Event carries ids and the values that changed; consumers never need to
// query back into the session.
type Event struct {
	Kind      Kind      `json:"kind"`
	UserID    string    `json:"userId,omitempty"`
	VenueID   string    `json:"venueId,omitempty"`
	PostID    string    `json:"postId,omitempty"`
	HeatValue int       `json:"heatValue,omitempty"`
	XP        int       `json:"xp,omitempty"`
	Level     string    `json:"level,omitempty"`
	At        time.Time `json:"at"`
}

// Bus is a lightweight in-process pub-sub backed by a buffered channel.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns true if published, false if the buffer is full.
func (b *Bus) Publish(evt Event) bool {
	if b == nil {
		return false
	}
	select {
	case b.ch <- evt:
		return true
	default:
		metrics.ActivityDropped.Inc()
		return false
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}
