package main

import (
	"context"
	"log/slog"
	"os"

	"ballotbox/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring and replay the election journal.
// 3) Serve HTTP and relay the outbox until interrupted.
//
// @title Ballotbox API
// @version 1.0
// @description Token-gated election with an incrementally ranked candidate list.
// @BasePath /
func main() {
	ctx := context.Background()
	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		slog.Error("bootstrap api failed", "event", "api_bootstrap_failed", "error", err.Error())
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		slog.Error("api shutdown close failed", "event", "api_close_failed", "error", err.Error())
	}
	if runErr != nil {
		slog.Error("ballotbox api stopped with error", "event", "api_stopped", "error", runErr.Error())
		os.Exit(1)
	}
}
