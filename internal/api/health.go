package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/api/respond"
)

// ServiceHealth is the aggregated health view served by /api/health.
type ServiceHealth interface {
	IsHealthy() bool
	Components() map[string]bool
}

type downService struct{}

func (downService) IsHealthy() bool              { return false }
func (downService) Components() map[string]bool { return nil }

// HealthHandler serves GET /api/health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

var boundHealth atomic.Value // holds healthBox

type healthBox struct{ ServiceHealth }

func init() {
	boundHealth.Store(healthBox{downService{}})
}

// BindServiceHealth lets run.go inject the aggregated service health.
func BindServiceHealth(h ServiceHealth) { boundHealth.Store(healthBox{h}) }

// CheckHealth always answers 200; the body carries healthy or unhealthy and
// the per-component verdicts.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	svc := boundHealth.Load().(healthBox)
	status := "unhealthy"
	if svc.IsHealthy() {
		status = "healthy"
	}
	body := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if comps := svc.Components(); len(comps) > 0 {
		body["components"] = comps
	}
	respond.WriteJSON(w, http.StatusOK, body)
}
