package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ulissesgoncalvess/ferveu/internal/api/respond"
	"github.com/ulissesgoncalvess/ferveu/internal/api/validate"
	"github.com/ulissesgoncalvess/ferveu/internal/geo"
	"github.com/ulissesgoncalvess/ferveu/internal/model"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
)

// SessionHandler serves sign-in, sign-out, status, location and
// notifications.
type SessionHandler struct {
	ctrl *session.Controller
}

func NewSessionHandler(ctrl *session.Controller) *SessionHandler {
	return &SessionHandler{ctrl: ctrl}
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Status    session.Status `json:"status"`
}

// Login POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	id, err := h.ctrl.Login(r.Context(), req)
	if err != nil {
		if model.IsValidationError(err) || model.IsConflictError(err) {
			respond.WriteDomainError(w, err)
			return
		}
		respond.WriteUnauthorized(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, loginResponse{Token: id.Token, ExpiresAt: id.ExpiresAt, Status: h.ctrl.Status()})
}

// Logout POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Logout(r.Context()); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status GET /api/session
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.ctrl.Status())
}

// Location POST /api/session/location
//
// Body: {"lat":..,"lng":..,"accuracy":..} or {"error":"permission denied"}.
func (h *SessionHandler) Location(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		Accuracy float64  `json:"accuracy,omitempty"`
		Error    string   `json:"error,omitempty"`
	}
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	fix := geo.Fix{Accuracy: req.Accuracy}
	switch {
	case req.Error != "":
		fix.Err = errors.New(req.Error)
	case req.Lat == nil || req.Lng == nil:
		respond.WriteBadRequest(w, "lat and lng are required")
		return
	default:
		if err := validate.Coordinates(*req.Lat, *req.Lng); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		fix.Position = model.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	}
	if err := h.ctrl.ReportLocation(fix); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Notification GET /api/notifications
func (h *SessionHandler) Notification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.ctrl.Notification()
	if !ok {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notification": nil})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notification": n})
}

// DismissNotification DELETE /api/notifications/{id}
func (h *SessionHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.ctrl.DismissNotification(id) {
		respond.WriteNotFound(w, "notification not visible")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
