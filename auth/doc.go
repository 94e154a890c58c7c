// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides host keys, guest tokens and IP hashing.

# Host Keys

Host keys use HMAC-SHA256 over the event ID:

	hostKey := auth.GenerateHostKey(eventID, salt)
	err := auth.ValidateHostKey(eventID, hostKey, salt)

The key is returned once when the event is created and must be sent in
the X-Host-Key header to add or delete options and to finalize results.
Because it is derived, the database never holds it.

# Guest Tokens

	token, err := auth.GenerateGuestToken()

Guests that join without an account receive a random 192-bit token. The
token is their voter identity for later ballot submissions.

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Ballots record the first 8 bytes of an HMAC of the submitter's address.
*/
package auth
