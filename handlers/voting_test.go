// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/testutil"
)

func TestSubmitPreferences(t *testing.T) {
	env := setupEnv(t)
	handler := NewVotingHandler(env.svc, env.cfg)
	eventID, _ := testutil.CreateTestEvent(t, env.db, env.cfg, []string{models.CategoryPlace}, false)
	a := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "A")
	b := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "B")

	testCases := []struct {
		name           string
		body           models.SubmitPreferencesRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid ballot",
			body:           rankedBallot(models.CategoryPlace, "Ann", a, b),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "no voter",
			body:           rankedBallot(models.CategoryPlace, "", a),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "missing_voter",
		},
		{
			name: "zero rank",
			body: models.SubmitPreferencesRequest{
				Category:    models.CategoryPlace,
				VoterName:   "Ann",
				Preferences: []models.RankedOption{{OptionID: a, Rank: 0}},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_rank",
		},
		{
			name:           "option from nowhere",
			body:           rankedBallot(models.CategoryPlace, "Ann", "ghost"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "unknown_option",
		},
		{
			name:           "category not on event",
			body:           rankedBallot(models.CategoryCuisine, "Ann", a),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_category",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := withParams(testutil.MakeRequest("POST", "/events/"+eventID+"/voting-preferences", tc.body, nil), "id", eventID)
			w := serve(handler.SubmitPreferences, req)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedCode == "" {
				var pref models.Preference
				testutil.AssertJSON(t, w, &pref)
				if pref.ID == "" || pref.Preferences[0].OptionName != "A" {
					t.Errorf("Unexpected preference: %+v", pref)
				}
				return
			}
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Code != tc.expectedCode {
				t.Errorf("Expected code %s, got %s", tc.expectedCode, resp.Code)
			}
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		req := withParams(testutil.MakeRequest("POST", "/events/nope/voting-preferences",
			rankedBallot(models.CategoryPlace, "Ann", a), nil), "id", "nope")
		w := serve(handler.SubmitPreferences, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestSubmitPreferencesUsesDeviceHeader(t *testing.T) {
	env := setupEnv(t)
	handler := NewVotingHandler(env.svc, env.cfg)
	eventID, _ := testutil.CreateTestEvent(t, env.db, env.cfg, []string{models.CategoryPlace}, false)
	a := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "A")
	deviceUUID := uuid.NewString()

	body := models.SubmitPreferencesRequest{
		Category:    models.CategoryPlace,
		Preferences: []models.RankedOption{{OptionID: a, Rank: 1}},
	}
	req := withParams(testutil.MakeRequest("POST", "/events/"+eventID+"/voting-preferences", body,
		map[string]string{"X-Device-UUID": deviceUUID}), "id", eventID)
	w := serve(handler.SubmitPreferences, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var pref models.Preference
	testutil.AssertJSON(t, w, &pref)
	if pref.Voter.Kind != models.VoterDevice || pref.DeviceID != deviceUUID {
		t.Errorf("Expected device voter, got %+v", pref.Voter)
	}

	// The device was registered on first sight
	mine, err := env.svc.ListDeviceEvents(req.Context(), deviceUUID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Events) != 1 || mine.Events[0].EventID != eventID {
		t.Errorf("Unexpected device events: %+v", mine.Events)
	}
}

func TestStandardResubmissionReplaces(t *testing.T) {
	env := setupEnv(t)
	handler := NewVotingHandler(env.svc, env.cfg)
	eventID, _ := testutil.CreateTestEvent(t, env.db, env.cfg, []string{models.CategoryPlace}, false)
	a := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "A")
	b := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "B")

	for _, order := range [][]string{{a, b}, {b, a}} {
		req := withParams(testutil.MakeRequest("POST", "/events/"+eventID+"/voting-preferences",
			rankedBallot(models.CategoryPlace, "Ann", order...), nil), "id", eventID)
		w := serve(handler.SubmitPreferences, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	req := withParams(testutil.MakeRequest("GET", "/events/"+eventID+"/voting-preferences?category=place", nil, nil), "id", eventID)
	w := serve(handler.ListPreferences, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var prefs []models.Preference
	testutil.AssertJSON(t, w, &prefs)
	if len(prefs) != 1 {
		t.Fatalf("Expected 1 ballot, got %d", len(prefs))
	}
	if prefs[0].Preferences[0].OptionID != b {
		t.Error("Expected the latest ballot to be kept")
	}
}

func TestListPreferencesFilters(t *testing.T) {
	env := setupEnv(t)
	handler := NewVotingHandler(env.svc, env.cfg)
	eventID, _ := testutil.CreateTestEvent(t, env.db, env.cfg, []string{models.CategoryPlace}, true)
	a := testutil.AddTestOption(t, env.db, eventID, models.CategoryPlace, "A")

	testutil.SubmitTestPreference(t, env.db, eventID, models.CategoryPlace, testutil.User("u1"), false, a)
	testutil.SubmitTestPreference(t, env.db, eventID, models.CategoryPlace, testutil.Device("d1"), true, a)
	testutil.SubmitTestPreference(t, env.db, eventID, models.CategoryPlace, testutil.Device("d1"), true, a)

	testCases := []struct {
		query    string
		status   int
		expected int
	}{
		{"", http.StatusOK, 3},
		{"?isQuickPoll=true", http.StatusOK, 2},
		{"?isQuickPoll=false", http.StatusOK, 1},
		{"?category=cuisine", http.StatusOK, 0},
		{"?isQuickPoll=maybe", http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			req := withParams(testutil.MakeRequest("GET", "/events/"+eventID+"/voting-preferences"+tc.query, nil, nil), "id", eventID)
			w := serve(handler.ListPreferences, req)
			testutil.AssertStatus(t, w, tc.status)
			if tc.status != http.StatusOK {
				return
			}
			var prefs []models.Preference
			testutil.AssertJSON(t, w, &prefs)
			if len(prefs) != tc.expected {
				t.Errorf("Expected %d ballots, got %d", tc.expected, len(prefs))
			}
		})
	}
}
