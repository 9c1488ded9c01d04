// Command rebuild-leaderboard recomputes leaderboard rankings from the
// activity ledger and exits. Pass -type WEEKLY|MONTHLY|ALL_TIME to
// rebuild one board; the default rebuilds all three.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/achievement"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/activity"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/badge"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/leaderboard"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/profile"
	"github.com/opencatechism/catechesis-backend/internal/app"
	"github.com/opencatechism/catechesis-backend/internal/config"
	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/internal/service/community"
)

func main() {
	typeFlag := flag.String("type", "", "leaderboard type: WEEKLY, MONTHLY, or ALL_TIME (default: all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := community.NewService(logger,
		profile.New(pool),
		badge.New(pool),
		achievement.New(pool),
		activity.New(pool),
		leaderboard.New(pool),
		postgres.NewTxManager(pool),
	)

	if *typeFlag != "" {
		t := domain.LeaderboardType(*typeFlag)
		if !t.IsValid() {
			logger.Error("invalid -type", slog.String("type", *typeFlag))
			os.Exit(1)
		}
		n, err := svc.Rebuild(ctx, t)
		if err != nil {
			logger.Error("rebuild failed", slog.String("type", *typeFlag), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("rebuild completed", slog.String("type", *typeFlag), slog.Int("entries", n))
		return
	}

	if err := svc.RebuildAll(ctx); err != nil {
		logger.Error("rebuild failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("rebuild completed")
}
