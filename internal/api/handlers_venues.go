package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ulissesgoncalvess/ferveu/internal/api/respond"
	"github.com/ulissesgoncalvess/ferveu/internal/api/validate"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
)

// VenueHandler serves venues, the panel, ranking, check-ins and missions.
type VenueHandler struct {
	ctrl *session.Controller
}

func NewVenueHandler(ctrl *session.Controller) *VenueHandler {
	return &VenueHandler{ctrl: ctrl}
}

// ListVenues GET /api/venues
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	vs, err := h.ctrl.Venues()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"venues": vs, "count": len(vs)})
}

// GetVenue GET /api/venues/{id}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := validate.ID("venue id", id); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	v, err := h.ctrl.Venue(id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, v)
}

// Panel GET /api/venues/panel
func (h *VenueHandler) Panel(w http.ResponseWriter, r *http.Request) {
	p, err := h.ctrl.Panel()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// CheckIn POST /api/venues/{id}/checkin
func (h *VenueHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := validate.ID("venue id", id); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	res, err := h.ctrl.ApplyAction(id, model.ActionCheckIn)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// Ranking GET /api/ranking/venues
func (h *VenueHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	vs, err := h.ctrl.Ranking()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"venues": vs, "count": len(vs)})
}

// Missions GET /api/missions
func (h *VenueHandler) Missions(w http.ResponseWriter, r *http.Request) {
	ms, err := h.ctrl.Missions()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"missions": ms, "count": len(ms)})
}
