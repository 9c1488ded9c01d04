// Command snapshot runs the daily analytics snapshot job once and
// exits. It is intended for external schedulers and backfills; pass
// -date YYYY-MM-DD to rebuild a past day.
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
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/activity"
	panalytics "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/analytics"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/content"
	pflag "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/flag"
	preview "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/review"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/submission"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/user"
	pvote "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/vote"
	"github.com/opencatechism/catechesis-backend/internal/app"
	"github.com/opencatechism/catechesis-backend/internal/config"
	"github.com/opencatechism/catechesis-backend/internal/service/analytics"
)

func main() {
	dateFlag := flag.String("date", "", "snapshot date as YYYY-MM-DD (default: today UTC)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	date := time.Now().UTC()
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			logger.Error("invalid -date", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := analytics.NewService(logger,
		submission.New(pool),
		pvote.New(pool),
		pflag.New(pool),
		preview.New(pool),
		user.New(pool),
		activity.New(pool),
		content.New(pool),
		panalytics.New(pool),
	)

	if err := svc.RunDaily(ctx, date); err != nil {
		logger.Error("snapshot failed",
			slog.String("error", err.Error()),
			slog.String("date", date.Format("2006-01-02")),
		)
		os.Exit(1)
	}

	logger.Info("snapshot completed", slog.String("date", date.Format("2006-01-02")))
}
