// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"

	"github.com/danielhkuo/quickly-plan/models"
)

// Resolution is the outcome of picking a single winner.
type Resolution struct {
	Winner      *models.Winner
	IsTied      bool
	Explanation string
}

// TieWeight is the secondary weight of an entry at effective rank r:
// 3 for first place, 2 for second, 1 for anything lower. It assumes voters
// mostly rank about three options.
func TieWeight(r int) int {
	return max(1, 4-r)
}

// ResolveWinner picks the winner from scores sorted by Score. A shared top
// score is broken by summed TieWeight over every ballot; if that is also
// shared, the first tied option in display order wins. No winner is
// produced when nothing has been scored.
func ResolveWinner(scores []models.OptionScore, prefs []models.Preference) Resolution {
	if len(scores) == 0 || scores[0].BordaScore == 0 {
		return Resolution{}
	}

	top := scores[0].BordaScore
	tied := 1
	for tied < len(scores) && scores[tied].BordaScore == top {
		tied++
	}

	if tied == 1 {
		return Resolution{Winner: winnerFrom(scores[0], "")}
	}

	candidates := scores[:tied]
	weights := make(map[string]int, tied)
	for _, c := range candidates {
		weights[c.OptionID] = 0
	}
	for _, p := range prefs {
		for _, e := range EffectiveRanks(p.Preferences) {
			if _, ok := weights[e.OptionID]; ok {
				weights[e.OptionID] += TieWeight(e.Effective)
			}
		}
	}

	best := candidates[0]
	bestWeight := weights[best.OptionID]
	shared := false
	for _, c := range candidates[1:] {
		w := weights[c.OptionID]
		switch {
		case w > bestWeight:
			best, bestWeight, shared = c, w, false
		case w == bestWeight:
			shared = true
		}
	}

	explanation := fmt.Sprintf("Tie between %d options at %d points, broken by preference distribution", tied, top)
	if shared {
		explanation = fmt.Sprintf("Tie between %d options at %d points; preference distribution also tied (%d), first listed option wins", tied, top, bestWeight)
	}

	return Resolution{
		Winner:      winnerFrom(best, explanation),
		IsTied:      true,
		Explanation: explanation,
	}
}

func winnerFrom(s models.OptionScore, explanation string) *models.Winner {
	return &models.Winner{
		OptionID:    s.OptionID,
		OptionName:  s.OptionName,
		Score:       s.BordaScore,
		Percentage:  s.Percentage,
		Explanation: explanation,
	}
}
