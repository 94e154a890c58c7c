// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-plan/auth"
	"github.com/danielhkuo/quickly-plan/cliparse"
	"github.com/danielhkuo/quickly-plan/middleware"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/service"
)

type EventHandler struct {
	svc *service.Service
	cfg cliparse.Config
}

func NewEventHandler(svc *service.Service, cfg cliparse.Config) *EventHandler {
	return &EventHandler{svc: svc, cfg: cfg}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ev, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEventResponse{
		EventID: ev.ID,
		HostKey: auth.GenerateHostKey(ev.ID, h.cfg.HostKeySalt),
	})
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ev)
}

// AddOption handles POST /events/{id}/options
// Requires X-Host-Key
func (h *EventHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	opt, err := h.svc.AddOption(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("option added", "event_id", opt.EventID, "option_id", opt.ID, "category", opt.Category)
	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{OptionID: opt.ID})
}

// ListOptions handles GET /events/{id}/options?category=
func (h *EventHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.ListOptions(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("category"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, options)
}

// DeleteOption handles DELETE /events/{id}/options/{optionId}
// Requires X-Host-Key
func (h *EventHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DeleteOption(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "optionId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Join handles POST /events/{id}/join
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.JoinEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// GuestJoin handles POST /events/{id}/guest-join
// The returned guest token is shown once and identifies the guest's ballots.
func (h *EventHandler) GuestJoin(w http.ResponseWriter, r *http.Request) {
	var req models.GuestJoinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.GuestJoin(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}
