// Command migrate manages the database schema.
//
// Usage:
//
//	migrate [up|down|status]
//
// Without an argument it applies all pending migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/scrumbot-backend/internal/app"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate [up|down|status]")
	}
	flag.Parse()

	command := app.MigrateUp
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.RunMigrate(ctx, command); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}
