package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ulissesgoncalvess/ferveu/internal/api/respond"
	"github.com/ulissesgoncalvess/ferveu/internal/api/validate"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
)

// FeedHandler serves posts and likes.
type FeedHandler struct {
	ctrl *session.Controller
}

func NewFeedHandler(ctrl *session.Controller) *FeedHandler {
	return &FeedHandler{ctrl: ctrl}
}

// CreatePost POST /api/venues/{id}/posts
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := validate.ID("venue id", id); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req session.PostRequest
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	res, err := h.ctrl.CreatePost(id, req)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	status := http.StatusOK
	if res.Applied {
		status = http.StatusCreated
	}
	respond.WriteJSON(w, status, res)
}

// ListPosts GET /api/posts
func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ctrl.Posts()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": ps, "count": len(ps)})
}

// LikePost POST /api/posts/{id}/like
func (h *FeedHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := validate.ID("post id", id); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	res, err := h.ctrl.LikePost(id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
