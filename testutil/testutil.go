// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/auth"
	"github.com/danielhkuo/quickly-plan/cliparse"
	"github.com/danielhkuo/quickly-plan/db"
	"github.com/danielhkuo/quickly-plan/models"
)

// BaseTime anchors fixture timestamps; Tick hands out strictly increasing
// times after it so ballot order is deterministic.
var BaseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var ticks atomic.Int64

// Tick returns the next fixture timestamp.
func Tick() time.Time {
	return BaseTime.Add(time.Duration(ticks.Add(1)) * time.Second)
}

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.TypeSQLite,
		HostKeySalt:     "test-host-salt",
		LogLevel:        "info",
		LogFormat:       "text",
		NotifyQueueSize: 10,
		VoteRatePerMin:  600,
	}
}

// CreateTestEvent creates a voting event and returns its ID and host key
func CreateTestEvent(t *testing.T, conn *sql.DB, cfg cliparse.Config, categories []string, quickPoll bool) (eventID, hostKey string) {
	t.Helper()

	eventID = uuid.NewString()
	hostKey = auth.GenerateHostKey(eventID, cfg.HostKeySalt)

	_, err := conn.Exec(`
		INSERT INTO event (id, title, description, host_name, status, quick_poll_enabled, created_at)
		VALUES ($1, 'Test Event', 'A test event', 'TestHost', $2, $3, $4)
	`, eventID, models.StatusVoting, quickPoll, Tick())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	for i, category := range categories {
		_, err := conn.Exec(`
			INSERT INTO event_category (event_id, category, sort_order)
			VALUES ($1, $2, $3)
		`, eventID, category, i)
		if err != nil {
			t.Fatalf("Failed to create test category: %v", err)
		}
	}

	return eventID, hostKey
}

// AddTestOption appends an option to an event category and returns its ID
func AddTestOption(t *testing.T, conn *sql.DB, eventID, category, label string) string {
	t.Helper()

	var position int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM event_option WHERE event_id = $1 AND category = $2
	`, eventID, category).Scan(&position); err != nil {
		t.Fatalf("Failed to count test options: %v", err)
	}

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO event_option (id, event_id, category, label, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, optionID, eventID, category, label, position, Tick())
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// AddTestParticipant puts a voter on the event roster
func AddTestParticipant(t *testing.T, conn *sql.DB, eventID string, voter models.VoterIdentity, name string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO participant (event_id, voter_key, voter_kind, voter_value, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, eventID, voter.Key(), string(voter.Kind), voter.Value, name, models.RoleParticipant, Tick())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
}

// SubmitTestPreference inserts a ballot directly, ranking optionIDs 1..n in
// the given order. Standard-mode uniqueness still applies.
func SubmitTestPreference(t *testing.T, conn *sql.DB, eventID, category string, voter models.VoterIdentity, quickPoll bool, optionIDs ...string) string {
	t.Helper()

	prefID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO preference (id, event_id, category, voter_key, voter_kind, voter_value, is_quick_poll, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, prefID, eventID, category, voter.Key(), string(voter.Kind), voter.Value, quickPoll, Tick())
	if err != nil {
		t.Fatalf("Failed to create test preference: %v", err)
	}

	for i, optionID := range optionIDs {
		_, err := conn.Exec(`
			INSERT INTO preference_rank (preference_id, option_id, option_name, rank_value, sort_order)
			VALUES ($1, $2, '', $3, $4)
		`, prefID, optionID, i+1, i)
		if err != nil {
			t.Fatalf("Failed to create test ranking: %v", err)
		}
	}

	return prefID
}

// User, Guest and Device build voter identities for fixtures
func User(id string) models.VoterIdentity {
	return models.VoterIdentity{Kind: models.VoterUser, Value: id}
}

func Guest(token string) models.VoterIdentity {
	return models.VoterIdentity{Kind: models.VoterGuest, Value: token}
}

func Device(id string) models.VoterIdentity {
	return models.VoterIdentity{Kind: models.VoterDevice, Value: id}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
