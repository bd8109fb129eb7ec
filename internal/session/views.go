package session

import (
	"sort"

	"github.com/ulissesgoncalvess/ferveu/internal/core/progression"
	"github.com/ulissesgoncalvess/ferveu/internal/core/projection"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// Status is the sign-in state plus the signed-in user's summary.
type Status struct {
	State    AuthState             `json:"state"`
	Reason   string                `json:"reason,omitempty"`
	User     *model.User           `json:"user,omitempty"`
	Progress *progression.Progress `json:"progress,omitempty"`
	Strategy string                `json:"strategy,omitempty"`
	Center   *model.LatLng         `json:"center,omitempty"`
	Located  bool                  `json:"located"`
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{State: c.state, Reason: c.rejectedErr}
	if s := c.session; s != nil && c.state == StateAuthenticated {
		u := s.user
		p := c.opts.Levels.Progress(u.XP)
		center := s.center
		st.User = &u
		st.Progress = &p
		st.Strategy = s.strategy
		st.Center = &center
		st.Located = s.located
	}
	return st
}

// Venues returns the current venues in display order.
func (c *Controller) Venues() ([]model.Venue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return nil, err
	}
	return s.venuesCopy(), nil
}

// Venue returns one venue.
func (c *Controller) Venue(id string) (model.Venue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return model.Venue{}, err
	}
	i, ok := s.venue(id)
	if !ok {
		return model.Venue{}, model.NewNotFoundError("venue", id)
	}
	return s.venues[i], nil
}

// Panel is the projected map view.
type Panel struct {
	Center model.LatLng        `json:"center"`
	Radius float64             `json:"radius"`
	Venues []projection.Placed `json:"venues"`
}

// Panel projects the venues around the current centre; out-of-range venues
// are left out.
func (c *Controller) Panel() (Panel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return Panel{}, err
	}
	return Panel{
		Center: s.center,
		Radius: c.opts.PanelRadius,
		Venues: projection.ProjectAll(s.center, s.venues, c.opts.PanelRadius),
	}, nil
}

// Posts returns the feed, newest first.
func (c *Controller) Posts() ([]model.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return nil, err
	}
	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

// Ranking returns the hottest venues, ties kept in display order.
func (c *Controller) Ranking() ([]model.Venue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return nil, err
	}
	vs := s.venuesCopy()
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].HeatValue > vs[j].HeatValue })
	if len(vs) > c.opts.RankingSize {
		vs = vs[:c.opts.RankingSize]
	}
	return vs, nil
}

// Missions returns the mission list.
func (c *Controller) Missions() ([]model.Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return nil, err
	}
	out := make([]model.Mission, len(s.missions))
	copy(out, s.missions)
	return out, nil
}
