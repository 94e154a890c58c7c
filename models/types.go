// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Event status constants
const (
	StatusDraft     = "draft"
	StatusVoting    = "voting"
	StatusFinalized = "finalized"
	StatusPast      = "past"
)

// Voting category tags
const (
	CategoryPlace    = "place"
	CategoryDateTime = "date_time"
	CategoryCuisine  = "cuisine"
	CategoryLocation = "location"
	CategoryGeneral  = "general"
)

// Participant roles
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
)

// Category result status
const (
	ResultNoVotes      = "no_votes"
	ResultVotingActive = "voting_active"
	ResultFinalized    = "finalized"
)

// Platform constants
const (
	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// IsKnownCategory reports whether category is a recognised voting category tag.
func IsKnownCategory(category string) bool {
	switch category {
	case CategoryPlace, CategoryDateTime, CategoryCuisine, CategoryLocation, CategoryGeneral:
		return true
	}
	return false
}

// Request types

type CreateEventRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	HostName         string   `json:"hostName"`
	HostUserID       string   `json:"hostUserId"`
	VotingCategories []string `json:"votingCategories"`
	QuickPollEnabled bool     `json:"quickPollEnabled"`
}

type AddOptionRequest struct {
	Category    string `json:"category"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Venue       *Venue `json:"venue,omitempty"`
}

type JoinEventRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type GuestJoinRequest struct {
	Name string `json:"name"`
}

// SubmitPreferencesRequest carries one ranked ballot. Exactly which voter
// field wins is decided by ResolveVoter.
type SubmitPreferencesRequest struct {
	Category    string         `json:"category"`
	Preferences []RankedOption `json:"preferences"`
	UserID      string         `json:"userId,omitempty"`
	GuestToken  string         `json:"guestToken,omitempty"`
	DeviceID    string         `json:"deviceId,omitempty"`
	VoterName   string         `json:"voterName,omitempty"`
	IsQuickPoll bool           `json:"isQuickPoll"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type CreateEventResponse struct {
	EventID string `json:"eventId"`
	HostKey string `json:"hostKey"`
}

type AddOptionResponse struct {
	OptionID string `json:"optionId"`
}

type GuestJoinResponse struct {
	GuestToken  string      `json:"guestToken"`
	Participant Participant `json:"participant"`
}

type DeleteOptionResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ScrubbedRankings int64  `json:"scrubbedRankings"`
}

type FinalizeResponse struct {
	EventID string                    `json:"eventId"`
	Status  string                    `json:"status"`
	Winners map[string]string         `json:"winners"`
	Results map[string]CategoryResult `json:"results"`
}

type VotingStatusResponse struct {
	EventID          string                    `json:"eventId"`
	StatusByCategory map[string]CategoryStatus `json:"statusByCategory"`
}

type VotingDetailsResponse struct {
	EventID           string                     `json:"eventId"`
	DetailsByCategory map[string]CategoryDetails `json:"detailsByCategory"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"deviceId"`
	IsNew    bool   `json:"isNew"`
}

type GetMyEventsResponse struct {
	Events []DeviceEventSummary `json:"events"`
}

// Domain types

type Event struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	HostName         string            `json:"hostName"`
	Status           string            `json:"status"`
	VotingCategories []string          `json:"votingCategories"`
	QuickPollEnabled bool              `json:"quickPollEnabled"`
	Participants     []Participant     `json:"participants"`
	Winners          map[string]string `json:"winners,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// HasCategory reports whether category is one of the event's voting categories.
func (e Event) HasCategory(category string) bool {
	for _, c := range e.VotingCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Participant struct {
	Voter       VoterIdentity `json:"voter"`
	DisplayName string        `json:"displayName"`
	Role        string        `json:"role"`
	JoinedAt    time.Time     `json:"joinedAt"`
	LastVotedAt *time.Time    `json:"lastVotedAt,omitempty"`
}

type Venue struct {
	Name       string   `json:"name,omitempty"`
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	PlaceID    string   `json:"placeId,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel *int     `json:"priceLevel,omitempty"`
	PhotoURL   string   `json:"photoUrl,omitempty"`
	Photos     []string `json:"photos,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type Option struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Category    string    `json:"category"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Venue       *Venue    `json:"venue,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RankedOption is one entry of a ballot. OptionName is a snapshot taken
// at submission time and does not follow later renames.
type RankedOption struct {
	OptionID   string `json:"optionId"`
	OptionName string `json:"optionName"`
	Rank       int    `json:"rank"`
}

// Preference is one voter's ranked ballot for one event category.
type Preference struct {
	ID          string         `json:"id"`
	EventID     string         `json:"eventId"`
	Category    string         `json:"category"`
	Voter       VoterIdentity  `json:"voter"`
	UserID      string         `json:"userId,omitempty"`
	GuestToken  string         `json:"-"` // Never expose in JSON
	DeviceID    string         `json:"deviceId,omitempty"`
	VoterName   string         `json:"voterName,omitempty"`
	Preferences []RankedOption `json:"preferences"`
	IsQuickPoll bool           `json:"isQuickPoll"`
	IPHash      string         `json:"-"`
	VotedAt     time.Time      `json:"votedAt"`
}

// Result types

type OptionScore struct {
	OptionID            string         `json:"optionId"`
	OptionName          string         `json:"optionName"`
	BordaScore          int            `json:"bordaScore"`
	TotalVotes          int            `json:"totalVotes"`
	Rank                int            `json:"rank"` // 1-indexed display rank
	PreferenceBreakdown map[string]int `json:"preferenceBreakdown"`
	Percentage          float64        `json:"percentage"`
	Venue               *Venue         `json:"venue,omitempty"`
}

type Winner struct {
	OptionID    string  `json:"optionId"`
	OptionName  string  `json:"optionName"`
	Score       int     `json:"score"`
	Percentage  float64 `json:"percentage"`
	Explanation string  `json:"explanation,omitempty"`
}

type CategoryResult struct {
	Category     string        `json:"category"`
	TotalVoters  int           `json:"totalVoters"`
	OptionScores []OptionScore `json:"optionScores"`
	Winner       *Winner       `json:"winner"`
	IsTied       bool          `json:"isTied"`
	TieBreaker   string        `json:"tieBreakerExplanation,omitempty"`
	Status       string        `json:"status"`
}

type VoterStatus struct {
	Voter       VoterIdentity `json:"voter"`
	DisplayName string        `json:"displayName"`
	VotedAt     *time.Time    `json:"votedAt,omitempty"`
}

type CategoryStatus struct {
	Category          string        `json:"category"`
	TotalParticipants int           `json:"totalParticipants"`
	TotalVoted        int           `json:"totalVoted"`
	TotalNotVoted     int           `json:"totalNotVoted"`
	PercentageVoted   int           `json:"percentageVoted"`
	Voted             []VoterStatus `json:"voted"`
	NotVoted          []VoterStatus `json:"notVoted"`
}

type VoterDetail struct {
	Voter       VoterIdentity `json:"voter"`
	DisplayName string        `json:"displayName"`
	Rank        int           `json:"rank"`
	IsGuest     bool          `json:"isGuest"`
	IsQuickPoll bool          `json:"isQuickPoll"`
}

type CategoryDetails struct {
	Category     string                   `json:"category"`
	OptionVoters map[string][]VoterDetail `json:"optionVoters"`
	TotalVoters  int                      `json:"totalVoters"`
}

// Device types

type DeviceInfo struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type DeviceEventSummary struct {
	EventID     string `json:"eventId"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	BallotCount int    `json:"ballotCount"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
