// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
)

// ValidateBallot checks the shape of a ranked ballot: at least one entry,
// every entry with an option id and a positive rank, no rank or option
// used twice. Ranks need not be contiguous.
func ValidateBallot(entries []models.RankedOption) error {
	if len(entries) == 0 {
		return apperr.Validation("empty_preferences", "preferences must contain at least one ranked option")
	}

	ranks := make(map[int]bool, len(entries))
	options := make(map[string]bool, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.OptionID) == "" {
			return apperr.Validation("missing_option_id", fmt.Sprintf("preference %d has no optionId", i+1))
		}
		if e.Rank < 1 {
			return apperr.Validation("invalid_rank", fmt.Sprintf("preference %d has rank %d, ranks start at 1", i+1, e.Rank))
		}
		if ranks[e.Rank] {
			return apperr.Validation("duplicate_rank", fmt.Sprintf("rank %d is used more than once", e.Rank))
		}
		if options[e.OptionID] {
			return apperr.Validation("duplicate_option", fmt.Sprintf("option %s is ranked more than once", e.OptionID))
		}
		ranks[e.Rank] = true
		options[e.OptionID] = true
	}
	return nil
}

// ValidateSubmission checks a full submission request and resolves the
// voter identity.
func ValidateSubmission(req models.SubmitPreferencesRequest) (models.VoterIdentity, error) {
	if strings.TrimSpace(req.Category) == "" {
		return models.VoterIdentity{}, apperr.Validation("missing_category", "category is required")
	}

	voter, err := models.ResolveVoter(req.UserID, req.GuestToken, req.DeviceID, req.VoterName)
	if err != nil {
		return models.VoterIdentity{}, apperr.Validation("missing_voter", err.Error())
	}

	if err := ValidateBallot(req.Preferences); err != nil {
		return models.VoterIdentity{}, err
	}
	return voter, nil
}
