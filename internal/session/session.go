// Package session owns the state of the signed-in user: venues, XP and level,
// feed and missions. Every mutation (user action, decay tick, collaborator
// result) is applied under the controller's lock so none is lost.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/auth"
	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/core/progression"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/strategy"
)

// AuthState is the sign-in position of the controller.
type AuthState string

const (
	StateSignedOut     AuthState = "signed_out"
	StatePending       AuthState = "pending"
	StateAuthenticated AuthState = "authenticated"
	StateRejected      AuthState = "rejected"
)

// Session is the per-login state. It is only touched with Controller.mu held.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	token    string
	user     model.User
	venues   []model.Venue
	index    map[string]int
	posts    []model.Post
	missions []model.Mission

	center  model.LatLng
	located bool

	strategy    string
	strategySeq int
}

func newSession(parent context.Context, id auth.Identity, rules heat.Rules, levels progression.Table, center model.LatLng, now time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ctx:    ctx,
		cancel: cancel,
		token:  id.Token,
		user: model.User{
			ID:       id.UserID,
			Name:     id.Name,
			Email:    id.Email,
			Level:    levels.LevelFor(0),
			JoinedAt: now,
		},
		posts:    samplePosts(now),
		missions: sampleMissions(),
		center:   center,
		strategy: strategy.Initial,
	}
	s.setVenues(places.SampleVenues(rules, now))
	return s
}

func (s *Session) setVenues(vs []model.Venue) {
	s.venues = vs
	s.index = make(map[string]int, len(vs))
	for i, v := range vs {
		s.index[v.ID] = i
	}
}

func (s *Session) venue(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

func (s *Session) post(id string) (int, bool) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Session) venuesCopy() []model.Venue {
	out := make([]model.Venue, len(s.venues))
	copy(out, s.venues)
	return out
}

// goTracked runs f on a goroutine tied to the session lifetime.
func (s *Session) goTracked(f func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f(s.ctx)
	}()
}

// end cancels all session work and waits for it. Must not be called with
// Controller.mu held.
func (s *Session) end() {
	s.cancel()
	s.wg.Wait()
}
