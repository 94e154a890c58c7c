// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-plan/cliparse"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/service"
	"github.com/danielhkuo/quickly-plan/store"
	"github.com/danielhkuo/quickly-plan/testutil"
)

type testEnv struct {
	db  *sql.DB
	cfg cliparse.Config
	svc *service.Service
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return testEnv{
		db:  db,
		cfg: testutil.GetTestConfig(),
		svc: service.New(store.New(db, store.WithClock(testutil.Tick))),
	}
}

// withParams attaches chi route parameters to req, given as name/value pairs.
func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func rankedBallot(category, voterName string, ids ...string) models.SubmitPreferencesRequest {
	req := models.SubmitPreferencesRequest{Category: category, VoterName: voterName}
	for i, id := range ids {
		req.Preferences = append(req.Preferences, models.RankedOption{OptionID: id, Rank: i + 1})
	}
	return req
}
