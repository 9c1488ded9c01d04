// Command server runs the moderation, gamification, and analytics
// backend: the HTTP API, the event dispatcher, and the background
// snapshot and leaderboard workers.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/opencatechism/catechesis-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
