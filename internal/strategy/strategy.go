// Package strategy produces the short "night strategy" flavour text shown to
// the user. Generation failures never surface: the Advisor substitutes
// fixed fallback lines.
package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/breaker"
	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

const (
	// Initial is shown before the first generation completes.
	Initial = "Buscando a vibe da cidade..."
	// EmptyFallback replaces an empty generation.
	EmptyFallback = "A noite está só começando. Bora esquentar esse mapa!"
	// ErrorFallback replaces a failed generation.
	ErrorFallback = "O rolê te espera. Onde vamos ferver hoje?"

	sceneSize = 3
)

// Request is the input of one generation.
type Request struct {
	UserName string
	Level    model.Level
	Scene    string
}

// Prompt renders the fixed template.
func (r Request) Prompt() string {
	return fmt.Sprintf(`You are the "Ferveu Concierge", a nightlife expert for an app that shows where the parties are in real-time.
User: %s (Level: %s).
Current Scene: %s.
Provide a 2-sentence "Night Strategy" in Brazilian Portuguese that sounds cool, hype-focused, and encourages them to increase their status by posting and checking in.
Use slang appropriate for 20-year-olds in Brazil (e.g., 'rolê', 'vibe', 'tá fervendo').`, r.UserName, r.Level, r.Scene)
}

// Generator turns a request into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Scene describes the first venues as "Name (Tier)" joined by ", ".
func Scene(venues []model.Venue) string {
	n := len(venues)
	if n > sceneSize {
		n = sceneSize
	}
	parts := make([]string, 0, n)
	for _, v := range venues[:n] {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Name, v.HeatStatus))
	}
	return strings.Join(parts, ", ")
}

// Advisor wraps a generator with fallbacks, a timeout and an optional breaker.
type Advisor struct {
	gen     Generator
	breaker *breaker.Breaker
	timeout time.Duration
	log     zerolog.Logger
}

// NewAdvisor returns an Advisor. br may be nil.
func NewAdvisor(gen Generator, br *breaker.Breaker, timeout time.Duration, log zerolog.Logger) *Advisor {
	return &Advisor{gen: gen, breaker: br, timeout: timeout, log: log.With().Str("component", "strategy").Logger()}
}

// Advise always returns displayable text.
func (a *Advisor) Advise(ctx context.Context, req Request) string {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	var text string
	call := func(ctx context.Context) error {
		out, err := a.gen.Generate(ctx, req)
		text = out
		return err
	}
	var err error
	if a.breaker != nil {
		err = a.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues("strategy").Inc()
		a.log.Warn().Err(err).Msg("strategy generation failed")
		return ErrorFallback
	}
	if strings.TrimSpace(text) == "" {
		return EmptyFallback
	}
	return strings.TrimSpace(text)
}

// Static returns canned lines keyed by the user's level.
type Static struct{}

func (Static) Generate(_ context.Context, req Request) (string, error) {
	switch req.Level {
	case model.LevelIncendiario:
		return "Você é lenda no rolê. Escolhe o lugar mais fervendo e mostra quem manda na noite.", nil
	case model.LevelFervendo:
		return "A vibe tá alta e você também. Faz check-in onde tá fervendo e posta pra subir de nível.", nil
	case model.LevelEsquentando:
		return "Tá esquentando, hein? Bora marcar presença e postar o rolê pra chegar no topo.", nil
	default:
		return "", nil
	}
}
