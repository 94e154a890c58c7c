// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// VoterKind tags which identity field a voter was recognised by.
type VoterKind string

const (
	VoterUser   VoterKind = "user"
	VoterGuest  VoterKind = "guest"
	VoterDevice VoterKind = "device"
	VoterName   VoterKind = "name"
)

var ErrNoVoterIdentity = errors.New("must provide userId, guestToken, deviceId, or voterName")

// VoterIdentity is the single value used for ballot deduplication and
// for the "who voted" set.
type VoterIdentity struct {
	Kind  VoterKind `json:"kind"`
	Value string    `json:"value"`
}

// ResolveVoter picks the identity by precedence: registered user, guest
// token, device, then free-text name. Blank fields are ignored.
func ResolveVoter(userID, guestToken, deviceID, voterName string) (VoterIdentity, error) {
	candidates := []struct {
		kind  VoterKind
		value string
	}{
		{VoterUser, userID},
		{VoterGuest, guestToken},
		{VoterDevice, deviceID},
		{VoterName, voterName},
	}
	for _, c := range candidates {
		if v := strings.TrimSpace(c.value); v != "" {
			return VoterIdentity{Kind: c.kind, Value: v}, nil
		}
	}
	return VoterIdentity{}, ErrNoVoterIdentity
}

// Key returns the stable "kind:value" form stored alongside ballots.
func (v VoterIdentity) Key() string {
	if v.IsZero() {
		return ""
	}
	return string(v.Kind) + ":" + v.Value
}

func (v VoterIdentity) IsZero() bool {
	return v.Kind == "" || v.Value == ""
}

// Valid reports whether Kind is one of the known voter kinds.
func (v VoterIdentity) Valid() bool {
	switch v.Kind {
	case VoterUser, VoterGuest, VoterDevice, VoterName:
		return v.Value != ""
	}
	return false
}

func (v VoterIdentity) String() string {
	return v.Key()
}

// MarshalJSON hides guest tokens, which are bearer secrets, behind a
// stable digest so responses can still tell guests apart.
func (v VoterIdentity) MarshalJSON() ([]byte, error) {
	type plain VoterIdentity
	out := plain(v)
	if v.Kind == VoterGuest && v.Value != "" {
		sum := sha256.Sum256([]byte(v.Value))
		out.Value = "g-" + hex.EncodeToString(sum[:6])
	}
	return json.Marshal(out)
}
