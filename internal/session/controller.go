package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/activity"
	"github.com/ulissesgoncalvess/ferveu/internal/auth"
	"github.com/ulissesgoncalvess/ferveu/internal/core/heat"
	"github.com/ulissesgoncalvess/ferveu/internal/core/notify"
	"github.com/ulissesgoncalvess/ferveu/internal/core/progression"
	"github.com/ulissesgoncalvess/ferveu/internal/core/projection"
	"github.com/ulissesgoncalvess/ferveu/internal/geo"
	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/places"
	"github.com/ulissesgoncalvess/ferveu/internal/sessionstore"
	"github.com/ulissesgoncalvess/ferveu/internal/strategy"
)

// Options are the tunables of the engine.
type Options struct {
	Rules           heat.Rules
	Levels          progression.Table
	Rewards         progression.Rewards
	DecayInterval   time.Duration
	NotificationTTL time.Duration
	PanelRadius     float64
	PlacesRadius    int
	RankingSize     int
	DefaultCenter   model.LatLng
}

// DefaultOptions returns the canonical tunables.
func DefaultOptions() Options {
	return Options{
		Rules:           heat.DefaultRules(),
		Levels:          progression.DefaultTable(),
		Rewards:         progression.DefaultRewards(),
		DecayInterval:   10 * time.Second,
		NotificationTTL: notify.DefaultTTL,
		PanelRadius:     projection.DefaultRadius,
		PlacesRadius:    2000,
		RankingSize:     5,
		DefaultCenter:   geo.DefaultCenter,
	}
}

// Deps are the collaborators of the engine. Store, Places, Advisor, Locator
// and Bus may be nil.
type Deps struct {
	Auth     auth.Provider
	Verifier auth.Verifier
	Store    sessionstore.Store
	Places   places.Provider
	Advisor  *strategy.Advisor
	Locator  geo.Locator
	Bus      *activity.Bus
	Log      zerolog.Logger
	Now      func() time.Time
}

// Controller drives the sign-in state machine and owns the active Session.
type Controller struct {
	opts Options
	deps Deps
	log  zerolog.Logger
	now  func() time.Time

	notices *notify.Queue

	mu          sync.Mutex
	state       AuthState
	rejectedErr string
	loginSeq    int
	loginCancel context.CancelFunc
	session     *Session
	closed      bool
}

// NewController returns a signed-out controller.
func NewController(opts Options, deps Deps) *Controller {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	if opts.RankingSize <= 0 {
		opts.RankingSize = 5
	}
	return &Controller{
		opts:    opts,
		deps:    deps,
		log:     deps.Log.With().Str("component", "session").Logger(),
		now:     now,
		notices: notify.New(opts.NotificationTTL),
		state:   StateSignedOut,
	}
}

// LoginRequest is a sign-in attempt.
type LoginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Remember bool   `json:"remember"`
}

// ValidateLogin rejects blank names and malformed emails.
func ValidateLogin(req LoginRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	if len(strings.TrimSpace(req.Name)) > 80 {
		return model.NewValidationError("name", "exceeds 80 characters")
	}
	if e := strings.TrimSpace(req.Email); e != "" && !strfmt.IsEmail(e) {
		return model.NewValidationError("email", "is not a valid address")
	}
	return nil
}

// Login runs the handshake: SignedOut|Rejected -> Pending -> Authenticated|Rejected.
// It blocks for the provider's handshake and fails with a ConflictError when
// a login is already pending or a user is signed in.
func (c *Controller) Login(ctx context.Context, req LoginRequest) (auth.Identity, error) {
	if err := ValidateLogin(req); err != nil {
		return auth.Identity{}, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return auth.Identity{}, model.NewConflictError("session", "controller closed")
	}
	switch c.state {
	case StatePending:
		c.mu.Unlock()
		return auth.Identity{}, model.NewConflictError("session", "login already in progress")
	case StateAuthenticated:
		c.mu.Unlock()
		return auth.Identity{}, model.NewConflictError("session", "already signed in")
	}
	c.state = StatePending
	c.rejectedErr = ""
	c.loginSeq++
	seq := c.loginSeq
	loginCtx, cancel := context.WithCancel(ctx)
	c.loginCancel = cancel
	c.mu.Unlock()
	defer cancel()

	creds := auth.Credentials{Name: strings.TrimSpace(req.Name), Email: strings.TrimSpace(req.Email)}
	id, err := c.deps.Auth.Authenticate(loginCtx, creds)

	c.mu.Lock()
	if seq != c.loginSeq || c.state != StatePending {
		c.mu.Unlock()
		return auth.Identity{}, model.NewConflictError("session", "login superseded")
	}
	c.loginCancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.state = StateSignedOut
		} else {
			c.state = StateRejected
			c.rejectedErr = err.Error()
			c.notices.Push("Falha na autenticação: " + err.Error())
		}
		c.mu.Unlock()
		c.log.Warn().Err(err).Msg("login failed")
		return auth.Identity{}, fmt.Errorf("login: %w", err)
	}
	c.startLocked(id)
	c.mu.Unlock()

	if req.Remember && c.deps.Store != nil {
		rec := sessionstore.Remembered{UserID: id.UserID, Name: id.Name, Email: id.Email, Token: id.Token, SavedAt: c.now().UTC()}
		if err := sessionstore.Save(ctx, c.deps.Store, rec); err != nil {
			c.log.Error().Stack().Err(err).Msg("remember session failed")
		}
	}
	return id, nil
}

// Restore resumes a remembered session without the handshake. It reports
// whether a session was resumed; stale or forged records are discarded.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	if c.deps.Store == nil || c.deps.Verifier == nil {
		return false, nil
	}
	rec, err := sessionstore.Load(ctx, c.deps.Store)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		if ferr := sessionstore.Forget(ctx, c.deps.Store); ferr != nil {
			c.log.Warn().Err(ferr).Msg("forget unreadable session failed")
		}
		return false, err
	}
	id, err := c.deps.Verifier.Verify(rec.Token)
	if err != nil {
		c.log.Info().Err(err).Msg("remembered session expired")
		return false, sessionstore.Forget(ctx, c.deps.Store)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == StateAuthenticated || c.state == StatePending {
		return false, nil
	}
	c.startLocked(id)
	return true, nil
}

// startLocked creates the session and its background work. c.mu must be held.
func (c *Controller) startLocked(id auth.Identity) {
	s := newSession(context.Background(), id, c.opts.Rules, c.opts.Levels, c.opts.DefaultCenter, c.now())
	c.session = s
	c.state = StateAuthenticated
	metrics.SessionsActive.Set(1)
	metrics.VenuesTracked.Set(float64(len(s.venues)))

	c.notices.Push("Identidade confirmada: " + id.Name)
	c.publish(activity.Event{Kind: activity.KindLogin, UserID: id.UserID, XP: s.user.XP, Level: string(s.user.Level)})
	c.log.Info().Str("user_id", id.UserID).Msg("session started")

	s.goTracked(func(ctx context.Context) { c.runDecay(ctx, s) })
	if c.deps.Locator != nil {
		s.goTracked(func(ctx context.Context) { c.watchLocation(ctx, s) })
	}
	c.refreshStrategyLocked(s)
}

// Logout ends the session, cancels its background work and forgets the
// remembered identity. Logging out while signed out is a no-op.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	s := c.endLocked()
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	s.end()
	c.notices.Clear()
	if c.deps.Store != nil {
		if err := sessionstore.Forget(ctx, c.deps.Store); err != nil {
			return fmt.Errorf("forget session: %w", err)
		}
	}
	return nil
}

// endLocked detaches the active session. c.mu must be held.
func (c *Controller) endLocked() *Session {
	if c.loginCancel != nil {
		c.loginCancel()
		c.loginCancel = nil
	}
	c.loginSeq++
	s := c.session
	c.session = nil
	c.state = StateSignedOut
	c.rejectedErr = ""
	if s != nil {
		s.cancel()
		metrics.SessionsActive.Set(0)
		metrics.VenuesTracked.Set(0)
		c.publish(activity.Event{Kind: activity.KindLogout, UserID: s.user.ID})
		c.log.Info().Str("user_id", s.user.ID).Msg("session ended")
	}
	return s
}

// Close stops all work without forgetting the remembered identity.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	s := c.endLocked()
	c.mu.Unlock()
	if s != nil {
		s.end()
	}
	c.notices.Close()
}

// Authorize checks that token belongs to the active session.
func (c *Controller) Authorize(token string) error {
	if c.deps.Verifier != nil {
		if _, err := c.deps.Verifier.Verify(token); err != nil {
			return model.ErrUnauthorized
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.token != token {
		return model.ErrUnauthorized
	}
	return nil
}

// active returns the current session. c.mu must be held.
func (c *Controller) active() (*Session, error) {
	if c.session == nil || c.state != StateAuthenticated {
		return nil, model.ErrUnauthorized
	}
	return c.session, nil
}

func (c *Controller) publish(e activity.Event) {
	if c.deps.Bus == nil {
		return
	}
	if e.At.IsZero() {
		e.At = c.now()
	}
	c.deps.Bus.Publish(e)
}

// Notify pushes a message to the notification slot.
func (c *Controller) Notify(msg string) model.Notification {
	return c.notices.Push(msg)
}

// Notification returns the visible notification, if any.
func (c *Controller) Notification() (model.Notification, bool) {
	return c.notices.Current()
}

// DismissNotification removes the notification with id.
func (c *Controller) DismissNotification(id string) bool {
	return c.notices.Dismiss(id)
}
