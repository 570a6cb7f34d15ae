// Command cleanup removes expired job results and trend cache entries.
// It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/app"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.RunCleanup(ctx); err != nil {
		log.Printf("cleanup: %v", err)
		os.Exit(1)
	}
}
