// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-plan/models"
)

// CountVoters counts distinct standard-mode voters plus every quick-poll
// ballot, since quick-poll ballots are cast by different people sharing
// one device.
func CountVoters(prefs []models.Preference) int {
	seen := make(map[string]struct{})
	quick := 0
	for _, p := range prefs {
		if p.IsQuickPoll {
			quick++
			continue
		}
		if key := p.Voter.Key(); key != "" {
			seen[key] = struct{}{}
		}
	}
	return len(seen) + quick
}

// TrackStatus partitions the roster into voted and not-voted for one
// category. Quick-poll ballots never mark a participant as voted.
func TrackStatus(category string, roster []models.Participant, prefs []models.Preference) models.CategoryStatus {
	votedAt := make(map[string]time.Time)
	for _, p := range prefs {
		if p.Category != category || p.IsQuickPoll {
			continue
		}
		key := p.Voter.Key()
		if prev, ok := votedAt[key]; !ok || p.VotedAt.After(prev) {
			votedAt[key] = p.VotedAt
		}
	}

	status := models.CategoryStatus{
		Category:          category,
		TotalParticipants: len(roster),
		Voted:             []models.VoterStatus{},
		NotVoted:          []models.VoterStatus{},
	}

	for _, member := range roster {
		entry := models.VoterStatus{Voter: member.Voter, DisplayName: member.DisplayName}
		if at, ok := votedAt[member.Voter.Key()]; ok {
			entry.VotedAt = &at
			status.Voted = append(status.Voted, entry)
		} else {
			status.NotVoted = append(status.NotVoted, entry)
		}
	}

	status.TotalVoted = len(status.Voted)
	status.TotalNotVoted = len(status.NotVoted)
	if status.TotalParticipants > 0 {
		status.PercentageVoted = int(math.Round(float64(status.TotalVoted) / float64(status.TotalParticipants) * 100))
	}

	return status
}

// VotingDetails lists, per option, who ranked it and where. Voters under
// each option are ordered by rank.
func VotingDetails(category string, roster []models.Participant, prefs []models.Preference) models.CategoryDetails {
	names := make(map[string]string, len(roster))
	for _, member := range roster {
		names[member.Voter.Key()] = member.DisplayName
	}

	details := models.CategoryDetails{
		Category:     category,
		OptionVoters: map[string][]models.VoterDetail{},
	}

	var inCategory []models.Preference
	for _, p := range prefs {
		if p.Category != category {
			continue
		}
		inCategory = append(inCategory, p)

		name := names[p.Voter.Key()]
		if name == "" {
			name = p.VoterName
		}
		if name == "" && p.Voter.Kind != models.VoterGuest {
			name = p.Voter.Value
		}
		if name == "" {
			name = "Guest"
		}

		for _, e := range p.Preferences {
			details.OptionVoters[e.OptionID] = append(details.OptionVoters[e.OptionID], models.VoterDetail{
				Voter:       p.Voter,
				DisplayName: name,
				Rank:        e.Rank,
				IsGuest:     p.Voter.Kind != models.VoterUser,
				IsQuickPoll: p.IsQuickPoll,
			})
		}
	}

	for id := range details.OptionVoters {
		voters := details.OptionVoters[id]
		sort.SliceStable(voters, func(i, j int) bool {
			return voters[i].Rank < voters[j].Rank
		})
	}

	details.TotalVoters = CountVoters(inCategory)
	return details
}
