// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"math"
	"sort"

	"github.com/danielhkuo/quickly-plan/models"
)

// RankedEntry is a ballot entry together with its effective rank, the
// 1-based position after ordering the ballot by stored rank.
type RankedEntry struct {
	models.RankedOption
	Effective int
}

// EffectiveRanks returns the ballot's entries ordered by stored rank with
// dense effective ranks assigned. The input slice is not modified.
func EffectiveRanks(entries []models.RankedOption) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = RankedEntry{RankedOption: e}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rank < ranked[j].Rank
	})
	for i := range ranked {
		ranked[i].Effective = i + 1
	}
	return ranked
}

// BordaPoints is the contribution of an entry at effective rank r on a
// ballot that ranked n options.
func BordaPoints(n, r int) int {
	return n - r + 1
}

// BallotPoints is the total number of Borda points one ballot hands out.
func BallotPoints(p models.Preference) int {
	n := len(p.Preferences)
	return n * (n + 1) / 2
}

// Score aggregates Borda points across ballots. Options appear in the
// order they were first seen on a ballot, followed by catalog options
// nobody ranked; the result is then sorted by score, keeping that order
// among equal scores, and given display ranks and percentages.
func Score(prefs []models.Preference, catalog []models.Option) []models.OptionScore {
	labels := make(map[string]string, len(catalog))
	for _, opt := range catalog {
		labels[opt.ID] = opt.Label
	}

	scores := make([]models.OptionScore, 0, len(catalog))
	index := make(map[string]int)

	for _, p := range prefs {
		ranked := EffectiveRanks(p.Preferences)
		n := len(ranked)
		for _, e := range ranked {
			i, ok := index[e.OptionID]
			if !ok {
				name := e.OptionName
				if name == "" {
					name = labels[e.OptionID]
				}
				scores = append(scores, models.OptionScore{
					OptionID:            e.OptionID,
					OptionName:          name,
					PreferenceBreakdown: map[string]int{},
				})
				i = len(scores) - 1
				index[e.OptionID] = i
			}

			s := &scores[i]
			s.BordaScore += BordaPoints(n, e.Effective)
			s.TotalVotes++
			s.PreferenceBreakdown[fmt.Sprintf("rank%d", e.Rank)]++
		}
	}

	// Catalog entries matched by label count as already present
	seenLabels := make(map[string]bool, len(scores))
	for _, s := range scores {
		seenLabels[s.OptionName] = true
	}
	for _, opt := range catalog {
		if _, ok := index[opt.ID]; ok || seenLabels[opt.Label] {
			continue
		}
		scores = append(scores, models.OptionScore{
			OptionID:            opt.ID,
			OptionName:          opt.Label,
			PreferenceBreakdown: map[string]int{},
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].BordaScore > scores[j].BordaScore
	})

	total := TotalPoints(scores)
	for i := range scores {
		scores[i].Rank = i + 1
		scores[i].Percentage = percentage(scores[i].BordaScore, total)
	}

	return scores
}

// TotalPoints sums bordaScore over all options.
func TotalPoints(scores []models.OptionScore) int {
	total := 0
	for _, s := range scores {
		total += s.BordaScore
	}
	return total
}

// percentage rounds to two decimals; zero total yields zero.
func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}
