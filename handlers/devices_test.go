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

func TestDeviceRegister(t *testing.T) {
	env := setupEnv(t)
	handler := NewDeviceHandler(env.svc)
	deviceUUID := uuid.NewString()

	testCases := []struct {
		name           string
		deviceUUID     string
		platform       string
		expectedStatus int
		expectNew      bool
	}{
		{"new device", deviceUUID, models.PlatformIOS, http.StatusCreated, true},
		{"existing device", deviceUUID, models.PlatformIOS, http.StatusOK, false},
		{"missing header", "", models.PlatformIOS, http.StatusBadRequest, false},
		{"malformed uuid", "not-a-uuid", models.PlatformIOS, http.StatusBadRequest, false},
		{"invalid platform", uuid.NewString(), "windows", http.StatusBadRequest, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.deviceUUID != "" {
				headers["X-Device-UUID"] = tc.deviceUUID
			}
			req := testutil.MakeRequest("POST", "/devices/register", models.RegisterDeviceRequest{Platform: tc.platform}, headers)
			w := serve(handler.Register, req)
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus >= http.StatusBadRequest {
				return
			}
			var resp models.RegisterDeviceResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.DeviceID == "" || resp.IsNew != tc.expectNew {
				t.Errorf("Unexpected response: %+v", resp)
			}
		})
	}
}

func TestDeviceGetMeAndMyEvents(t *testing.T) {
	env := setupEnv(t)
	handler := NewDeviceHandler(env.svc)
	deviceUUID := uuid.NewString()
	headers := map[string]string{"X-Device-UUID": deviceUUID}

	w := serve(handler.GetMe, testutil.MakeRequest("GET", "/devices/me", nil, headers))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(handler.Register, testutil.MakeRequest("POST", "/devices/register",
		models.RegisterDeviceRequest{Platform: models.PlatformAndroid}, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = serve(handler.GetMe, testutil.MakeRequest("GET", "/devices/me", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var info models.DeviceInfo
	testutil.AssertJSON(t, w, &info)
	if info.Platform != models.PlatformAndroid {
		t.Errorf("Expected android, got %s", info.Platform)
	}

	eventID, _ := testutil.CreateTestEvent(t, env.db, env.cfg, []string{models.CategoryPlace}, false)
	_, err := env.db.Exec(`
		INSERT INTO preference (id, event_id, category, voter_key, voter_kind, voter_value, device_id, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), eventID, models.CategoryPlace, "device:"+deviceUUID, string(models.VoterDevice), deviceUUID, deviceUUID, testutil.Tick())
	if err != nil {
		t.Fatal(err)
	}

	w = serve(handler.GetMyEvents, testutil.MakeRequest("GET", "/devices/my-events", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var mine models.GetMyEventsResponse
	testutil.AssertJSON(t, w, &mine)
	if len(mine.Events) != 1 || mine.Events[0].EventID != eventID || mine.Events[0].BallotCount != 1 {
		t.Errorf("Unexpected events: %+v", mine.Events)
	}
}
