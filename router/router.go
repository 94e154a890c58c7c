// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-plan/cliparse"
	"github.com/danielhkuo/quickly-plan/handlers"
	"github.com/danielhkuo/quickly-plan/middleware"
	"github.com/danielhkuo/quickly-plan/service"
	"github.com/danielhkuo/quickly-plan/store"
)

// voteBurst is how many ballots one IP may submit back to back before the
// per-minute rate applies.
const voteBurst = 5

// NewRouter wires the store, service and handlers into a chi router. pub
// may be nil, in which case no notifications are sent.
func NewRouter(db *sql.DB, cfg cliparse.Config, pub service.Publisher) http.Handler {
	var opts []service.Option
	if pub != nil {
		opts = append(opts, service.WithPublisher(pub))
	}
	svc := service.New(store.New(db), opts...)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc)
	deviceHandler := handlers.NewDeviceHandler(svc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", readyHandler(db))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/events", func(r chi.Router) {
		r.Post("/", eventHandler.CreateEvent)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", eventHandler.GetEvent)
			r.Post("/join", eventHandler.Join)
			r.Post("/guest-join", eventHandler.GuestJoin)
			r.Get("/options", eventHandler.ListOptions)

			// Voting
			r.With(middleware.RateLimitVotes(cfg.VoteRatePerMin, voteBurst)).
				Post("/voting-preferences", votingHandler.SubmitPreferences)
			r.Get("/voting-preferences", votingHandler.ListPreferences)
			r.Get("/voting-results", resultsHandler.GetResults)
			r.Get("/voting-status", resultsHandler.GetVotingStatus)
			r.Get("/voting-details", resultsHandler.GetVotingDetails)

			// Host operations
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHostKey(cfg.HostKeySalt))
				r.Post("/options", eventHandler.AddOption)
				r.Delete("/options/{optionId}", eventHandler.DeleteOption)
				r.Post("/finalize", resultsHandler.Finalize)
			})
		})
	})

	// Device management
	r.Route("/devices", func(r chi.Router) {
		r.Post("/register", deviceHandler.Register)
		r.Get("/me", deviceHandler.GetMe)
		r.Get("/my-events", deviceHandler.GetMyEvents)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-plan API v1"))
	})

	return r
}

func readyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
