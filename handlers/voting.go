// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-plan/auth"
	"github.com/danielhkuo/quickly-plan/cliparse"
	"github.com/danielhkuo/quickly-plan/middleware"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/service"
)

type VotingHandler struct {
	svc *service.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *service.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// SubmitPreferences handles POST /events/{id}/voting-preferences
// When the body names no device, the X-Device-UUID header is used.
func (h *VotingHandler) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if deviceUUID := r.Header.Get(middleware.HeaderDeviceUUID); deviceUUID != "" {
		if req.DeviceID == "" {
			req.DeviceID = deviceUUID
		}
		h.svc.TouchDevice(r.Context(), deviceUUID)
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.HostKeySalt)
	pref, err := h.svc.SubmitPreferences(r.Context(), chi.URLParam(r, "id"), req, ipHash)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, pref)
}

// ListPreferences handles GET /events/{id}/voting-preferences?category=&isQuickPoll=
func (h *VotingHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var isQuickPoll *bool
	if raw := q.Get("isQuickPoll"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "isQuickPoll must be true or false")
			return
		}
		isQuickPoll = &v
	}

	prefs, err := h.svc.ListPreferences(r.Context(), chi.URLParam(r, "id"), q.Get("category"), isQuickPoll)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, prefs)
}
