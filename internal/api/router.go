package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ulissesgoncalvess/ferveu/internal/api/recovery"
	"github.com/ulissesgoncalvess/ferveu/internal/metrics"
	"github.com/ulissesgoncalvess/ferveu/internal/session"
)

// RouterOptions configure the HTTP surface.
type RouterOptions struct {
	CORSOrigins []string
	// AccessLog receives combined-format request lines when set.
	AccessLog io.Writer
	Log       zerolog.Logger
}

// NewRouter wires every route to the controller.
func NewRouter(ctrl *session.Controller, opts RouterOptions) http.Handler {
	root := mux.NewRouter()
	root.Use(recovery.New(opts.Log))

	secured := RequireSession(ctrl)
	guard := func(f http.HandlerFunc) http.Handler { return secured(f) }

	// Health & metrics
	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Session
	sess := NewSessionHandler(ctrl)
	root.HandleFunc("/api/session/login", sess.Login).Methods("POST")
	root.HandleFunc("/api/session", sess.Status).Methods("GET")
	root.Handle("/api/session/logout", guard(sess.Logout)).Methods("POST")
	root.Handle("/api/session/location", guard(sess.Location)).Methods("POST")
	root.HandleFunc("/api/notifications", sess.Notification).Methods("GET")
	root.HandleFunc("/api/notifications/{id}", sess.DismissNotification).Methods("DELETE")

	// Venues (panel before {id})
	venues := NewVenueHandler(ctrl)
	root.Handle("/api/venues", guard(venues.ListVenues)).Methods("GET")
	root.Handle("/api/venues/panel", guard(venues.Panel)).Methods("GET")
	root.Handle("/api/venues/{id}", guard(venues.GetVenue)).Methods("GET")
	root.Handle("/api/venues/{id}/checkin", guard(venues.CheckIn)).Methods("POST")
	root.Handle("/api/ranking/venues", guard(venues.Ranking)).Methods("GET")
	root.Handle("/api/missions", guard(venues.Missions)).Methods("GET")

	// Feed
	feed := NewFeedHandler(ctrl)
	root.Handle("/api/venues/{id}/posts", guard(feed.CreatePost)).Methods("POST")
	root.Handle("/api/posts", guard(feed.ListPosts)).Methods("GET")
	root.Handle("/api/posts/{id}/like", guard(feed.LikePost)).Methods("POST")

	var h http.Handler = root
	if len(opts.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.CORSOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(h)
	}
	if opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(opts.AccessLog, h)
	}
	return h
}
