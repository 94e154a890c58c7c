// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidHostKey = errors.New("invalid host key")

// GenerateHostKey derives the host key for an event.
// It is deterministic, so it never needs to be stored.
func GenerateHostKey(eventID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("host:"))
	h.Write([]byte(eventID))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// ValidateHostKey checks hostKey against the key derived for eventID.
func ValidateHostKey(eventID, hostKey, salt string) error {
	if hostKey == "" {
		return ErrInvalidHostKey
	}
	expected := GenerateHostKey(eventID, salt)
	if !hmac.Equal([]byte(hostKey), []byte(expected)) {
		return ErrInvalidHostKey
	}
	return nil
}

// GenerateGuestToken creates a random bearer token for a guest participant.
func GenerateGuestToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate guest token: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashIP creates a one-way hash of an IP address for privacy.
func HashIP(ip, salt string) string {
	if ip == "" {
		return ""
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// 64 bits is enough to spot repeat submitters
	return hex.EncodeToString(sum[:8])
}
