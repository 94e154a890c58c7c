// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/notify"
	"github.com/danielhkuo/quickly-plan/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(ev notify.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return true
}

func (p *recordingPublisher) types() []notify.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig(), nil)

	w := do(mux, httptest.NewRequest("GET", "/health", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, httptest.NewRequest("GET", "/ready", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, httptest.NewRequest("GET", "/", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "quickly-plan API v1", w.Body.String())

	db.Close()
	w = do(mux, httptest.NewRequest("GET", "/ready", nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestSpecificMethodRouting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig(), nil)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PUT to options endpoint", "PUT", "/events/test-id/options", http.StatusMethodNotAllowed},
		{"unknown event", "GET", "/events/test-id", http.StatusNotFound},
		{"unknown route", "GET", "/polls", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(mux, httptest.NewRequest(tc.method, tc.path, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

func TestHostRoutesRequireHostKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, nil)

	eventID, hostKey := testutil.CreateTestEvent(t, db, cfg, []string{models.CategoryPlace}, false)
	optionID := testutil.AddTestOption(t, db, eventID, models.CategoryPlace, "A")
	_, otherKey := testutil.CreateTestEvent(t, db, cfg, []string{models.CategoryPlace}, false)

	routes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"POST", "/events/" + eventID + "/options", models.AddOptionRequest{Category: models.CategoryPlace, Label: "B"}},
		{"DELETE", "/events/" + eventID + "/options/" + optionID, nil},
		{"POST", "/events/" + eventID + "/finalize", nil},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(mux, testutil.MakeRequest(rt.method, rt.path, rt.body, nil))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)

			w = do(mux, testutil.MakeRequest(rt.method, rt.path, rt.body, map[string]string{"X-Host-Key": otherKey}))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}

	w := do(mux, testutil.MakeRequest("POST", "/events/"+eventID+"/options",
		models.AddOptionRequest{Category: models.CategoryPlace, Label: "B"},
		map[string]string{"X-Host-Key": hostKey}))
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestVoteRateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.VoteRatePerMin = 1
	mux := NewRouter(db, cfg, nil)

	eventID, _ := testutil.CreateTestEvent(t, db, cfg, []string{models.CategoryPlace}, true)
	a := testutil.AddTestOption(t, db, eventID, models.CategoryPlace, "A")
	body := models.SubmitPreferencesRequest{
		Category:    models.CategoryPlace,
		VoterName:   "Ann",
		IsQuickPoll: true,
		Preferences: []models.RankedOption{{OptionID: a, Rank: 1}},
	}

	for i := 0; i < voteBurst; i++ {
		w := do(mux, testutil.MakeRequest("POST", "/events/"+eventID+"/voting-preferences", body, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := do(mux, testutil.MakeRequest("POST", "/events/"+eventID+"/voting-preferences", body, nil))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// Reads are not limited
	w = do(mux, testutil.MakeRequest("GET", "/events/"+eventID+"/voting-results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestEventWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	pub := &recordingPublisher{}
	mux := NewRouter(db, cfg, pub)

	// Host creates the event
	w := do(mux, testutil.MakeRequest("POST", "/events", models.CreateEventRequest{
		Title:            "Friday dinner",
		HostName:         "Hana",
		VotingCategories: []string{models.CategoryPlace},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.CreateEventResponse
	testutil.AssertJSON(t, w, &created)
	require.NotEmpty(t, created.HostKey)

	base := "/events/" + created.EventID
	hostHeaders := map[string]string{"X-Host-Key": created.HostKey}

	// Host adds three options
	ids := make(map[string]string)
	for _, label := range []string{"A", "B", "C"} {
		w = do(mux, testutil.MakeRequest("POST", base+"/options",
			models.AddOptionRequest{Category: models.CategoryPlace, Label: label}, hostHeaders))
		testutil.AssertStatus(t, w, http.StatusCreated)
		var resp models.AddOptionResponse
		testutil.AssertJSON(t, w, &resp)
		ids[label] = resp.OptionID
	}

	// Participants join and vote
	w = do(mux, testutil.MakeRequest("POST", base+"/join", models.JoinEventRequest{UserID: "u1", UserName: "Uma"}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	ballots := []struct {
		userID string
		order  []string
	}{
		{"u1", []string{"A", "B", "C"}},
		{"u2", []string{"A", "C", "B"}},
		{"u3", []string{"B", "A", "C"}},
	}
	for _, b := range ballots {
		req := models.SubmitPreferencesRequest{Category: models.CategoryPlace, UserID: b.userID}
		for i, label := range b.order {
			req.Preferences = append(req.Preferences, models.RankedOption{OptionID: ids[label], Rank: i + 1})
		}
		w = do(mux, testutil.MakeRequest("POST", base+"/voting-preferences", req, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	// Live results: A=8, B=6, C=4
	w = do(mux, testutil.MakeRequest("GET", base+"/voting-results?category=place", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results map[string]models.CategoryResult
	testutil.AssertJSON(t, w, &results)
	place := results[models.CategoryPlace]
	require.Len(t, place.OptionScores, 3)
	assert.Equal(t, ids["A"], place.OptionScores[0].OptionID)
	assert.Equal(t, 8, place.OptionScores[0].BordaScore)
	assert.Equal(t, 6, place.OptionScores[1].BordaScore)
	assert.Equal(t, 4, place.OptionScores[2].BordaScore)
	assert.Equal(t, models.ResultVotingActive, place.Status)

	// Host removes C, which scrubs it from all three ballots
	w = do(mux, testutil.MakeRequest("DELETE", base+"/options/"+ids["C"], nil, hostHeaders))
	testutil.AssertStatus(t, w, http.StatusOK)
	var deleted models.DeleteOptionResponse
	testutil.AssertJSON(t, w, &deleted)
	assert.True(t, deleted.Success)
	assert.EqualValues(t, 3, deleted.ScrubbedRankings)

	// Host finalizes
	w = do(mux, testutil.MakeRequest("POST", base+"/finalize", nil, hostHeaders))
	testutil.AssertStatus(t, w, http.StatusOK)
	var final models.FinalizeResponse
	testutil.AssertJSON(t, w, &final)
	assert.Equal(t, models.StatusFinalized, final.Status)
	assert.Equal(t, ids["A"], final.Winners[models.CategoryPlace])

	w = do(mux, testutil.MakeRequest("GET", base, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var ev models.Event
	testutil.AssertJSON(t, w, &ev)
	assert.Equal(t, models.StatusFinalized, ev.Status)
	assert.Equal(t, ids["A"], ev.Winners[models.CategoryPlace])

	assert.Contains(t, pub.types(), notify.VoteChanged)
	assert.Contains(t, pub.types(), notify.OptionDeleted)
	assert.Contains(t, pub.types(), notify.ResultsFinalized)
}
