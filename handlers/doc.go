// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Plan API.

# Handler Types

Each handler is a thin struct over *service.Service:

  - EventHandler: Event creation, joining, and the option catalog
  - VotingHandler: Ranked ballot submission and listing
  - ResultsHandler: Borda results, finalization, voting status and details
  - DeviceHandler: Device registration and event history

Handlers decode the request, call the service, and map errors with
middleware.WriteError:

	svc := service.New(store.New(db))
	events := handlers.NewEventHandler(svc, cfg)

# Event Lifecycle

	POST   /events                          → CreateEvent (returns hostKey)
	POST   /events/{id}/join                → Join
	POST   /events/{id}/guest-join          → GuestJoin (returns guestToken)
	POST   /events/{id}/options             → AddOption
	DELETE /events/{id}/options/{optionId}  → DeleteOption
	POST   /events/{id}/finalize            → Finalize

Host operations require the X-Host-Key header, checked by
middleware.RequireHostKey before the handler runs.

# Voting Flow

	POST /events/{id}/voting-preferences → SubmitPreferences
	GET  /events/{id}/voting-results     → GetResults (?category=&calculateWinner=)
	GET  /events/{id}/voting-status      → GetVotingStatus
	GET  /events/{id}/voting-details     → GetVotingDetails

A standard-mode ballot replaces the voter's earlier ballot for the same
category. Quick-poll ballots are always appended.

# Device Tracking

	POST /devices/register  → Register
	GET  /devices/me        → GetMe
	GET  /devices/my-events → GetMyEvents

Device operations require the X-Device-UUID header.
*/
package handlers
