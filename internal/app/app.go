// Package app wires configuration, storage, services, the event
// dispatcher, and the HTTP server into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/achievement"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/activity"
	panalytics "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/analytics"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/badge"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/content"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/fileupload"
	pflag "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/flag"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/leaderboard"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/profile"
	preview "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/review"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/submission"
	"github.com/opencatechism/catechesis-backend/internal/adapter/postgres/user"
	pvote "github.com/opencatechism/catechesis-backend/internal/adapter/postgres/vote"
	"github.com/opencatechism/catechesis-backend/internal/auth"
	"github.com/opencatechism/catechesis-backend/internal/config"
	"github.com/opencatechism/catechesis-backend/internal/event"
	"github.com/opencatechism/catechesis-backend/internal/metrics"
	"github.com/opencatechism/catechesis-backend/internal/search"
	"github.com/opencatechism/catechesis-backend/internal/service/analytics"
	"github.com/opencatechism/catechesis-backend/internal/service/community"
	"github.com/opencatechism/catechesis-backend/internal/service/explanation"
	flagsvc "github.com/opencatechism/catechesis-backend/internal/service/flag"
	"github.com/opencatechism/catechesis-backend/internal/service/review"
	votesvc "github.com/opencatechism/catechesis-backend/internal/service/vote"
	"github.com/opencatechism/catechesis-backend/internal/transport/middleware"
	"github.com/opencatechism/catechesis-backend/internal/transport/rest"
)

// Run is the application entry point: it loads configuration, connects
// storage, wires services and event handlers, and serves HTTP until ctx
// is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	m := metrics.New()

	// Repositories.
	txManager := postgres.NewTxManager(pool)
	subRepo := submission.New(pool)
	voteRepo := pvote.New(pool)
	flagRepo := pflag.New(pool)
	reviewRepo := preview.New(pool)
	userRepo := user.New(pool)
	profileRepo := profile.New(pool)
	badgeRepo := badge.New(pool)
	achievementRepo := achievement.New(pool)
	activityRepo := activity.New(pool)
	boardRepo := leaderboard.New(pool)
	analyticsRepo := panalytics.New(pool)
	contentRepo := content.New(pool)
	fileRepo := fileupload.New(pool)

	// Event dispatcher.
	dispatcher := event.NewDispatcher(logger, cfg.Events.QueueSize, cfg.Events.Workers,
		event.WithDroppedHook(m.OnEventDropped),
		event.WithHandledHook(m.OnEventHandled),
	)

	// Services.
	searchNotifier := search.NewLogNotifier(logger)
	explanationSvc := explanation.NewService(logger, subRepo, contentRepo, fileRepo, flagRepo, dispatcher, searchNotifier)
	voteSvc := votesvc.NewService(logger, subRepo, voteRepo, reviewRepo, flagRepo, txManager, dispatcher)
	flagSvc := flagsvc.NewService(logger, subRepo, flagRepo, voteRepo, reviewRepo, txManager, dispatcher)
	reviewSvc := review.NewService(logger, subRepo, reviewRepo, voteRepo, flagRepo, txManager, dispatcher)
	communitySvc := community.NewService(logger, profileRepo, badgeRepo, achievementRepo, activityRepo, boardRepo, txManager)
	analyticsSvc := analytics.NewService(logger, subRepo, voteRepo, flagRepo, reviewRepo, userRepo, activityRepo, contentRepo, analyticsRepo)

	community.RegisterHandlers(dispatcher, communitySvc)
	search.RegisterHandlers(dispatcher, searchNotifier)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	// Background workers.
	go runNightlySnapshots(ctx, logger, analyticsSvc, m, cfg.Analytics.SnapshotHourUTC)
	if cfg.Community.RebuildInterval > 0 {
		go runLeaderboardRebuilds(ctx, logger, communitySvc, cfg.Community.RebuildInterval, cfg.Community.RebuildOnStartup)
	}

	// HTTP server.
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	adminHandler := rest.NewAdminHandler(analyticsSvc, communitySvc, logger)
	submissionHandler := rest.NewSubmissionHandler(explanationSvc, logger)
	moderationHandler := rest.NewModerationHandler(voteSvc, flagSvc, reviewSvc, logger)
	communityHandler := rest.NewCommunityHandler(communitySvc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /submissions", submissionHandler.Submit)
	mux.HandleFunc("GET /submissions", submissionHandler.List)
	mux.HandleFunc("GET /submissions/{id}", submissionHandler.Get)
	mux.HandleFunc("PUT /submissions/{id}", submissionHandler.UpdateText)
	mux.HandleFunc("DELETE /submissions/{id}", submissionHandler.Delete)
	mux.HandleFunc("GET /moderation/queue", submissionHandler.Queue)

	mux.HandleFunc("POST /submissions/{id}/votes", moderationHandler.Vote)
	mux.HandleFunc("PUT /submissions/{id}/votes", moderationHandler.UpdateVote)
	mux.HandleFunc("DELETE /submissions/{id}/votes", moderationHandler.RemoveVote)
	mux.HandleFunc("GET /submissions/{id}/votes/statistics", moderationHandler.VoteStatistics)
	mux.HandleFunc("GET /submissions/{id}/votes/me", moderationHandler.MyVote)
	mux.HandleFunc("GET /votes/mine", moderationHandler.MyVotes)
	mux.HandleFunc("GET /questions/{id}/submissions/top-voted", moderationHandler.TopVoted)
	mux.HandleFunc("POST /submissions/{id}/flags", moderationHandler.Flag)
	mux.HandleFunc("GET /submissions/{id}/flags/statistics", moderationHandler.FlagStatistics)
	mux.HandleFunc("POST /flags/{id}/resolve", moderationHandler.ResolveFlag)
	mux.HandleFunc("GET /flags/open", moderationHandler.OpenFlags)
	mux.HandleFunc("GET /users/{id}/flags", moderationHandler.UserFlags)
	mux.HandleFunc("GET /moderators/{id}/resolved-flags", moderationHandler.ResolvedFlags)
	mux.HandleFunc("POST /submissions/{id}/reviews", moderationHandler.Review)
	mux.HandleFunc("GET /submissions/{id}/reviews", moderationHandler.Reviews)

	mux.HandleFunc("GET /users/{id}/profile", communityHandler.Profile)
	mux.HandleFunc("PUT /me/profile", communityHandler.UpdateProfile)
	mux.HandleFunc("GET /badges", communityHandler.Badges)
	mux.HandleFunc("GET /users/{id}/badges", communityHandler.UserBadges)
	mux.HandleFunc("GET /users/{id}/achievements", communityHandler.UserAchievements)
	mux.HandleFunc("GET /users/{id}/activity", communityHandler.UserActivity)
	mux.HandleFunc("GET /leaderboards/{type}", communityHandler.Leaderboard)
	mux.HandleFunc("GET /leaderboards/{type}/me", communityHandler.MyRank)

	mux.HandleFunc("POST /admin/analytics/snapshot", adminHandler.RunSnapshot)
	mux.HandleFunc("POST /admin/leaderboards/rebuild", adminHandler.RebuildLeaderboards)
	mux.HandleFunc("GET /admin/analytics/dashboard", adminHandler.Dashboard)
	mux.HandleFunc("GET /admin/analytics/trends", adminHandler.Trends)
	mux.HandleFunc("GET /admin/analytics/top", adminHandler.TopContent)
	mux.HandleFunc("GET /admin/analytics/breakdown", adminHandler.Breakdown)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		m.HTTPMiddleware,
		middleware.Auth(verifier),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("application stopped")
	return nil
}

// runNightlySnapshots fires the daily snapshot job once per day at the
// configured UTC hour.
func runNightlySnapshots(ctx context.Context, logger *slog.Logger, svc *analytics.Service, m *metrics.Metrics, hourUTC int) {
	for {
		next := nextRunAt(time.Now().UTC(), hourUTC)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := svc.RunDaily(ctx, time.Now().UTC()); err != nil {
			logger.Error("nightly snapshot failed", slog.String("error", err.Error()))
			m.SnapshotRuns.WithLabelValues("error").Inc()
		} else {
			m.SnapshotRuns.WithLabelValues("ok").Inc()
		}
	}
}

// nextRunAt returns the next occurrence of hourUTC:00 strictly after now.
func nextRunAt(now time.Time, hourUTC int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// runLeaderboardRebuilds refreshes all boards on a fixed interval.
func runLeaderboardRebuilds(ctx context.Context, logger *slog.Logger, svc *community.Service, interval time.Duration, onStartup bool) {
	if onStartup {
		if err := svc.RebuildAll(ctx); err != nil {
			logger.Error("startup leaderboard rebuild failed", slog.String("error", err.Error()))
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.RebuildAll(ctx); err != nil {
				logger.Error("periodic leaderboard rebuild failed", slog.String("error", err.Error()))
			}
		}
	}
}
