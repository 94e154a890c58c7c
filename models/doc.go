// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateEventRequest: title, hostName, votingCategories, quickPollEnabled
  - AddOptionRequest: category, label, optional venue
  - JoinEventRequest / GuestJoinRequest: roster membership
  - SubmitPreferencesRequest: category, ranked preferences, voter fields
  - RegisterDeviceRequest: platform

# Domain Types

  - Event: planning session with categories and participant roster
  - Option: catalog entry for one category, with optional Venue
  - Preference: one ranked ballot (RankedOption entries)
  - VoterIdentity: tagged voter identity (user, guest, device, name)

# Result Types

  - OptionScore: Borda score, votes, breakdown and percentage per option
  - CategoryResult: standings, winner and tie information per category
  - CategoryStatus: who has and has not voted per category
  - CategoryDetails: who ranked which option

# Voter Identity

ResolveVoter picks exactly one identity from the raw request fields:

	voter, err := models.ResolveVoter(req.UserID, req.GuestToken, req.DeviceID, req.VoterName)

Precedence is registered user, guest token, device id, free-text name.
The identity Key ("user:42", "guest:abc") is what ballots are
deduplicated on.

# Constants

Event status values:

	StatusDraft     = "draft"
	StatusVoting    = "voting"
	StatusFinalized = "finalized"
	StatusPast      = "past"

Result status values:

	ResultNoVotes      = "no_votes"
	ResultVotingActive = "voting_active"
	ResultFinalized    = "finalized"
*/
package models
