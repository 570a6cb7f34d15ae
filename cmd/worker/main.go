// Command worker claims queued jobs and runs the audio pipeline and trend
// aggregation. Several workers may run against the same database.
//
// On SIGINT or SIGTERM it stops claiming and waits for running jobs.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/scrumbot-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx); err != nil {
		log.Printf("worker: %v", err)
		os.Exit(1)
	}
}
