// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateHostKey(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		salt    string
	}{
		{"standard", "event123", "secret-salt"},
		{"empty event id", "", "salt"},
		{"empty salt", "event456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateHostKey(tt.eventID, tt.salt)

			if key == "" {
				t.Error("GenerateHostKey() returned empty string")
			}

			if key2 := GenerateHostKey(tt.eventID, tt.salt); key != key2 {
				t.Error("GenerateHostKey() is not deterministic")
			}

			if tt.eventID != "" && tt.salt != "" {
				if other := GenerateHostKey(tt.eventID+"x", tt.salt); key == other {
					t.Error("GenerateHostKey() produced same key for different event IDs")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateHostKey() contains padding characters")
			}
		})
	}
}

func TestValidateHostKey(t *testing.T) {
	eventID := "test-event-123"
	salt := "test-salt"
	validKey := GenerateHostKey(eventID, salt)

	tests := []struct {
		name    string
		eventID string
		hostKey string
		salt    string
		wantErr bool
	}{
		{"valid key", eventID, validKey, salt, false},
		{"wrong key", eventID, "wrong-key", salt, true},
		{"wrong event id", "different-event", validKey, salt, true},
		{"wrong salt", eventID, validKey, "different-salt", true},
		{"empty key", eventID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostKey(tt.eventID, tt.hostKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidHostKey {
				t.Errorf("ValidateHostKey() error = %v, want %v", err, ErrInvalidHostKey)
			}
		})
	}
}

func TestGenerateGuestToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := GenerateGuestToken()
		if err != nil {
			t.Fatalf("GenerateGuestToken() error = %v", err)
		}
		// 24 bytes base64 without padding
		if len(token) != 32 {
			t.Errorf("GenerateGuestToken() length = %d, want 32", len(token))
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("GenerateGuestToken() = %q is not URL-safe", token)
		}
		if seen[token] {
			t.Fatal("GenerateGuestToken() produced a duplicate token")
		}
		seen[token] = true
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"ipv4", "192.168.1.1", "salt"},
		{"ipv6", "2001:db8::1", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)
			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
			if hash == HashIP(tt.ip, tt.salt+"x") {
				t.Error("HashIP() ignored the salt")
			}
			if strings.Contains(hash, tt.ip) {
				t.Error("HashIP() leaked the address")
			}
		})
	}

	if got := HashIP("", "salt"); got != "" {
		t.Errorf("HashIP(\"\") = %q, want empty", got)
	}
}
