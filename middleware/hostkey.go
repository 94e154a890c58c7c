// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/auth"
)

// RequireHostKey rejects requests whose X-Host-Key header is not the host
// key of the event named by the {id} route parameter.
func RequireHostKey(salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			eventID := chi.URLParam(r, "id")
			if err := auth.ValidateHostKey(eventID, r.Header.Get(HeaderHostKey), salt); err != nil {
				WriteError(w, r, apperr.Unauthorized("invalid_host_key", "missing or invalid host key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
