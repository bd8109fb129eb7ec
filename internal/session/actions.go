package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ulissesgoncalvess/ferveu/internal/activity"
	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// ActionResult reports the outcome of an action. Applied is false when the
// venue or post id is unknown; nothing changed in that case.
type ActionResult struct {
	Applied  bool         `json:"applied"`
	Venue    *model.Venue `json:"venue,omitempty"`
	Post     *model.Post  `json:"post,omitempty"`
	User     *model.User  `json:"user,omitempty"`
	XPGained int          `json:"xpGained,omitempty"`
	LevelUp  bool         `json:"levelUp,omitempty"`
}

// ApplyAction records a check-in or post at venueID: the venue heats up and
// the user earns XP.
func (c *Controller) ApplyAction(venueID string, kind model.ActionKind) (ActionResult, error) {
	if !kind.Valid() {
		return ActionResult{}, model.NewValidationError("kind", "must be checkin or post")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return ActionResult{}, err
	}
	return c.applyLocked(s, venueID, kind), nil
}

// applyLocked mutates venue and user. c.mu must be held.
func (c *Controller) applyLocked(s *Session, venueID string, kind model.ActionKind) ActionResult {
	i, ok := s.venue(venueID)
	if !ok {
		metrics.ActionsTotal.WithLabelValues(string(kind), "false").Inc()
		return ActionResult{Applied: false}
	}
	now := c.now()

	v := c.opts.Rules.Increase(s.venues[i], kind)
	v.LastUpdate = now
	s.venues[i] = v

	reward := c.opts.Rewards.For(kind)
	prevLevel := s.user.Level
	if u, err := c.opts.Levels.GainXP(s.user, reward); err == nil {
		s.user = u
	}
	if kind == model.ActionCheckIn {
		s.user.Streak = nextStreak(s.user.Streak, s.user.LastCheckIn, now)
		s.user.CheckIns++
		t := now
		s.user.LastCheckIn = &t
	}
	levelUp := s.user.Level != prevLevel

	metrics.ActionsTotal.WithLabelValues(string(kind), "true").Inc()
	c.publish(activity.Event{
		Kind:      activity.Kind(kind),
		UserID:    s.user.ID,
		VenueID:   v.ID,
		HeatValue: v.HeatValue,
		XP:        s.user.XP,
		Level:     string(s.user.Level),
	})
	c.notices.Push(fmt.Sprintf("+%d XP conquistados!", reward))

	if levelUp {
		metrics.LevelUpsTotal.WithLabelValues(string(s.user.Level)).Inc()
		c.publish(activity.Event{Kind: activity.KindLevelUp, UserID: s.user.ID, XP: s.user.XP, Level: string(s.user.Level)})
		c.log.Info().Str("user_id", s.user.ID).Str("level", string(s.user.Level)).Msg("level up")
		c.refreshStrategyLocked(s)
	}

	user := s.user
	return ActionResult{Applied: true, Venue: &v, User: &user, XPGained: reward, LevelUp: levelUp}
}

// nextStreak counts consecutive calendar days with a check-in.
func nextStreak(cur int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	ly, lm, ld := last.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	switch {
	case today.Equal(lastDay):
		if cur < 1 {
			return 1
		}
		return cur
	case today.Equal(lastDay.AddDate(0, 0, 1)):
		return cur + 1
	default:
		return 1
	}
}

// PostRequest is a new feed entry.
type PostRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

const maxPostLen = 280

// ValidatePost rejects blank or oversized content.
func ValidatePost(req PostRequest) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.NewValidationError("content", "is required")
	}
	if len([]rune(content)) > maxPostLen {
		return model.NewValidationError("content", "exceeds "+strconv.Itoa(maxPostLen)+" characters")
	}
	if u := strings.TrimSpace(req.MediaURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return model.NewValidationError("mediaUrl", "must be an http(s) URL")
	}
	return nil
}

// CreatePost publishes a post by the session user at venueID and applies the
// post action to the venue.
func (c *Controller) CreatePost(venueID string, req PostRequest) (ActionResult, error) {
	if err := ValidatePost(req); err != nil {
		return ActionResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return ActionResult{}, err
	}
	i, ok := s.venue(venueID)
	if !ok {
		metrics.ActionsTotal.WithLabelValues(string(model.ActionPost), "false").Inc()
		return ActionResult{Applied: false}, nil
	}
	p := model.Post{
		ID:        uuid.NewString(),
		UserID:    s.user.ID,
		UserName:  s.user.Name,
		UserLevel: s.user.Level,
		VenueID:   venueID,
		VenueName: s.venues[i].Name,
		Content:   strings.TrimSpace(req.Content),
		MediaURL:  strings.TrimSpace(req.MediaURL),
		CreatedAt: c.now(),
	}
	s.posts = append([]model.Post{p}, s.posts...)

	res := c.applyLocked(s, venueID, model.ActionPost)
	res.Post = &p
	return res, nil
}

// LikePost increments a post's like counter.
func (c *Controller) LikePost(postID string) (ActionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return ActionResult{}, err
	}
	i, ok := s.post(postID)
	if !ok {
		return ActionResult{Applied: false}, nil
	}
	s.posts[i].Likes++
	p := s.posts[i]
	metrics.LikesTotal.Inc()
	c.publish(activity.Event{Kind: activity.KindLike, UserID: s.user.ID, PostID: p.ID, VenueID: p.VenueID})
	return ActionResult{Applied: true, Post: &p}, nil
}

// Tick applies one decay step to every venue. It reports false when no
// session is active.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return false
	}
	c.tickLocked(s)
	return true
}

func (c *Controller) tickLocked(s *Session) {
	now := c.now()
	next := c.opts.Rules.Tick(s.venues)
	for i := range next {
		if next[i].HeatValue != s.venues[i].HeatValue {
			next[i].LastUpdate = now
		}
	}
	s.venues = next
	metrics.DecayTicksTotal.Inc()
}
