// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-plan/middleware"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/service"
)

type DeviceHandler struct {
	svc *service.Service
}

func NewDeviceHandler(svc *service.Service) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

// Register handles POST /devices/register
// Registers a device and returns its device_id (or finds existing)
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.svc.RegisterDevice(r.Context(), r.Header.Get(middleware.HeaderDeviceUUID), req.Platform)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.IsNew {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, resp)
}

// GetMe handles GET /devices/me
func (h *DeviceHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.GetDevice(r.Context(), r.Header.Get(middleware.HeaderDeviceUUID))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, info)
}

// GetMyEvents handles GET /devices/my-events
// Lists events this device has submitted ballots to
func (h *DeviceHandler) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListDeviceEvents(r.Context(), r.Header.Get(middleware.HeaderDeviceUUID))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
