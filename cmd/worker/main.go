package main

import (
	"context"
	"log"

	"ballotbox/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Open the durable election journal.
// 3) Replay it into a fresh election, verify invariants and log standings.
// A failed audit exits non-zero.
func main() {
	log.Println("ballotbox auditor starting")
	if err := run(context.Background()); err != nil {
		log.Fatalf("ballotbox auditor stopped with error: %v", err)
	}
}

func run(ctx context.Context) error {
	app, err := bootstrap.BuildWorker(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()
	return app.Run(ctx)
}
