// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

RequestLogger logs method, route pattern, status, duration and request ID
once a request completes, and counts it in the request metrics:

	r.Use(middleware.RequestLogger)

# Access Control

RequireHostKey guards host-only routes. The X-Host-Key header must carry
the key returned when the event was created:

	r.With(middleware.RequireHostKey(cfg.HostKeySalt)).Post("/events/{id}/finalize", h)

RateLimitVotes throttles ballot submissions per client IP.

# CORS Middleware

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Host-Key, X-Device-UUID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, r, err)

WriteError maps apperr kinds to HTTP statuses and hides the detail of
internal errors.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for rate limiting and for the IP hash stored with each ballot.
*/
package middleware
