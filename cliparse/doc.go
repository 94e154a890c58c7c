// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	slog.SetDefault(cfg.Logger(os.Stderr))

A .env file in the working directory is loaded first. Variables already
set in the environment are not overwritten by it.

# Flags and Environment Variables

	-p            PORT                (default 3318)
	-d            DATABASE_URL        (default quickly-plan.db for sqlite)
	-t            DATABASE_TYPE       sqlite or postgres (default sqlite)
	-host-salt    HOST_KEY_SALT       required
	-log-level    LOG_LEVEL           debug, info, warn, error
	-log-format   LOG_FORMAT          text or json
	-notify-url   NOTIFY_WEBHOOK_URL  optional
	-notify-queue NOTIFY_QUEUE_SIZE   (default 100)
	-vote-rate    VOTE_RATE_PER_MIN   (default 30)

CLI flags take precedence over environment variables.
*/
package cliparse
