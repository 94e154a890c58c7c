// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-plan/middleware"
	"github.com/danielhkuo/quickly-plan/service"
)

type ResultsHandler struct {
	svc *service.Service
}

func NewResultsHandler(svc *service.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /events/{id}/voting-results?category=&calculateWinner=
// Results are always computed from the current ballots and never stored.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	calculateWinner := false
	if raw := q.Get("calculateWinner"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "calculateWinner must be true or false")
			return
		}
		calculateWinner = v
	}

	results, err := h.svc.GetCategoryResults(r.Context(), chi.URLParam(r, "id"), q.Get("category"), calculateWinner)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// Finalize handles POST /events/{id}/finalize
// Requires X-Host-Key
func (h *ResultsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetVotingStatus handles GET /events/{id}/voting-status
func (h *ResultsHandler) GetVotingStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetVotingStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetVotingDetails handles GET /events/{id}/voting-details
func (h *ResultsHandler) GetVotingDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetVotingDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
