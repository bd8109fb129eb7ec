package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/geo"
	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/strategy"
)

// runDecay ticks the venues until the session ends.
func (c *Controller) runDecay(ctx context.Context, s *Session) {
	interval := c.opts.DecayInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.session == s {
				c.tickLocked(s)
			}
			c.mu.Unlock()
		}
	}
}

// watchLocation consumes fixes from the locator until the session ends.
func (c *Controller) watchLocation(ctx context.Context, s *Session) {
	fixes, err := c.deps.Locator.Watch(ctx)
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues("geolocation").Inc()
		c.log.Error().Stack().Err(err).Msg("geolocation watch failed")
		c.notices.Push(fmt.Sprintf("Erro no GPS: %v. Verifique as permissões.", err))
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}
			c.mu.Lock()
			if c.session == s {
				c.applyFixLocked(s, fix)
			}
			c.mu.Unlock()
		}
	}
}

// ReportLocation accepts a fix from the client. When the locator is a feed
// with a live watcher the fix goes through it; otherwise it is applied
// directly.
func (c *Controller) ReportLocation(fix geo.Fix) error {
	if fix.Err == nil {
		if err := geo.Validate(fix.Position); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.active()
	if err != nil {
		return err
	}
	if feed, ok := c.deps.Locator.(*geo.Feed); ok && feed.Push(fix) > 0 {
		return nil
	}
	c.applyFixLocked(s, fix)
	return nil
}

// applyFixLocked moves the panel centre; the first successful fix triggers
// the places lookup. c.mu must be held.
func (c *Controller) applyFixLocked(s *Session, fix geo.Fix) {
	if fix.Err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues("geolocation").Inc()
		c.log.Warn().Err(fix.Err).Msg("geolocation error")
		c.notices.Push(fmt.Sprintf("Erro no GPS: %v. Verifique as permissões.", fix.Err))
		return
	}
	first := !s.located
	s.center = fix.Position
	s.located = true
	if first && c.deps.Places != nil {
		center := fix.Position
		s.goTracked(func(ctx context.Context) { c.lookupPlaces(ctx, s, center) })
	}
}

func (c *Controller) lookupPlaces(ctx context.Context, s *Session, center model.LatLng) {
	venues, err := c.deps.Places.SearchNearby(ctx, center, c.opts.PlacesRadius)
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != s {
		return
	}
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues("places").Inc()
		c.log.Error().Stack().Err(err).Msg("places lookup failed")
		c.notices.Push(fmt.Sprintf("Erro ao buscar locais: %v", err))
		return
	}
	if len(venues) == 0 {
		c.notices.Push("Nenhum hotspot encontrado na área.")
		return
	}
	for i := range venues {
		venues[i] = c.opts.Rules.Normalize(venues[i])
	}
	s.setVenues(venues)
	metrics.VenuesTracked.Set(float64(len(venues)))
	c.notices.Push(fmt.Sprintf("%d locais encontrados!", len(venues)))
	c.refreshStrategyLocked(s)
}

// refreshStrategyLocked regenerates the strategy text in the background.
// Only the most recent request may write its result. c.mu must be held.
func (c *Controller) refreshStrategyLocked(s *Session) {
	if c.deps.Advisor == nil {
		return
	}
	s.strategySeq++
	seq := s.strategySeq
	req := strategy.Request{
		UserName: s.user.Name,
		Level:    s.user.Level,
		Scene:    strategy.Scene(s.venues),
	}
	s.goTracked(func(ctx context.Context) {
		text := c.deps.Advisor.Advise(ctx, req)
		if ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session == s && s.strategySeq == seq {
			s.strategy = text
		}
	})
}
