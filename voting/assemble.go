// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "github.com/danielhkuo/quickly-plan/models"

// Enrich attaches catalog venue metadata to scored options. A scored
// option is matched by id first, then by label against its name.
func Enrich(scores []models.OptionScore, catalog []models.Option) {
	byID := make(map[string]*models.Option, len(catalog))
	byLabel := make(map[string]*models.Option, len(catalog))
	for i := range catalog {
		opt := &catalog[i]
		byID[opt.ID] = opt
		if _, ok := byLabel[opt.Label]; !ok {
			byLabel[opt.Label] = opt
		}
	}

	for i := range scores {
		opt, ok := byID[scores[i].OptionID]
		if !ok {
			opt, ok = byLabel[scores[i].OptionName]
		}
		if !ok {
			continue
		}
		if scores[i].OptionName == "" {
			scores[i].OptionName = opt.Label
		}
		if opt.Venue != nil {
			v := *opt.Venue
			scores[i].Venue = &v
		}
	}
}

// Tally builds the result for one category from that category's ballots
// and catalog. With finalize set, a single winner is resolved.
func Tally(category string, prefs []models.Preference, catalog []models.Option, finalize bool) models.CategoryResult {
	result := models.CategoryResult{
		Category:     category,
		OptionScores: Score(prefs, catalog),
		TotalVoters:  CountVoters(prefs),
	}
	Enrich(result.OptionScores, catalog)

	if len(prefs) == 0 {
		result.Status = models.ResultNoVotes
		return result
	}

	if !finalize {
		result.Status = models.ResultVotingActive
		return result
	}

	res := ResolveWinner(result.OptionScores, prefs)
	result.Winner = res.Winner
	result.IsTied = res.IsTied
	result.TieBreaker = res.Explanation
	result.Status = models.ResultFinalized
	return result
}
