// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Plan API.

# Route Registration

NewRouter builds a chi router with all endpoints. The publisher receives
vote, option and finalization events and may be nil:

	handler := router.NewRouter(db, cfg, dispatcher)

Every request passes through request ID, real IP, panic recovery, a 60
second timeout, request logging and CORS.

# Endpoints

Operational:

	GET /health  - Liveness
	GET /ready   - Database ping
	GET /metrics - Prometheus metrics

Events:

	POST   /events                          - Create event (returns hostKey)
	GET    /events/{id}                     - Event with roster and winners
	POST   /events/{id}/join                - Join as a signed-in user
	POST   /events/{id}/guest-join          - Join as a guest
	GET    /events/{id}/options             - Option catalog
	POST   /events/{id}/options             - Add option (X-Host-Key)
	DELETE /events/{id}/options/{optionId}  - Delete option (X-Host-Key)
	POST   /events/{id}/finalize            - Persist winners (X-Host-Key)

Voting:

	POST /events/{id}/voting-preferences - Submit ranked ballot (rate limited)
	GET  /events/{id}/voting-preferences - List ballots
	GET  /events/{id}/voting-results     - Borda results
	GET  /events/{id}/voting-status      - Who has voted
	GET  /events/{id}/voting-details     - Who ranked what

Device management:

	POST /devices/register  - Register device
	GET  /devices/me        - Get device info
	GET  /devices/my-events - List events the device voted in
*/
package router
