// Command server runs the HTTP API: audio uploads, job status polling,
// voice logs, trends and sprint reports.
//
// Exit codes: 0 = clean shutdown, 1 = error.
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

	if err := app.RunServer(ctx); err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}
