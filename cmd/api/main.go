// Package main is the entry point for the plann.er API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/planner/backend/internal/clock"
	"github.com/pkordes/planner/backend/internal/config"
	"github.com/pkordes/planner/backend/internal/handler"
	"github.com/pkordes/planner/backend/internal/mail"
	"github.com/pkordes/planner/backend/internal/metrics"
	"github.com/pkordes/planner/backend/internal/middleware"
	"github.com/pkordes/planner/backend/internal/repo"
	"github.com/pkordes/planner/backend/internal/repo/memrepo"
	"github.com/pkordes/planner/backend/internal/service"
	"github.com/pkordes/planner/backend/migrations"
)

// repos is the set of persistence backends the services need.
type repos struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	activities   repo.ActivityRepo
	links        repo.LinkRepo
	close        func()
}

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	store, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.close()

	// --- Mail -------------------------------------------------------------
	mailer, err := mail.NewMailer(mail.Config{
		Provider: cfg.Mail.Provider,
		From:     mail.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromAddress},
		SMTP: mail.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			User:     cfg.Mail.SMTPUser,
			Password: cfg.Mail.SMTPPassword,
		},
		SES: mail.SESConfig{
			Region:          cfg.Mail.SESRegion,
			AccessKeyID:     cfg.Mail.SESAccessKeyID,
			SecretAccessKey: cfg.Mail.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		slog.Error("failed to configure mailer", "error", err)
		os.Exit(1)
	}
	composer, err := mail.NewComposer(cfg.APIBaseURL, cfg.WebBaseURL)
	if err != nil {
		slog.Error("failed to load mail templates", "error", err)
		os.Exit(1)
	}
	notifier := service.NewNotifier(mailer, composer, logger, cfg.Mail.Concurrency)

	// --- Services ---------------------------------------------------------
	server := handler.NewServer(handler.Services{
		Trips:        service.NewTripService(store.trips, store.participants, store.activities, notifier, clock.System{}, logger),
		Participants: service.NewParticipantService(store.trips, store.participants, notifier, logger),
		Activities:   service.NewActivityService(store.trips, store.activities),
		Links:        service.NewLinkService(store.trips, store.links),
	}, cfg.WebBaseURL, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute, logger)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(time.Minute, stopCleanup)
	defer close(stopCleanup)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → metrics → CORS → body limit. The rate limiter is applied per route
	// inside server.Handler, on the endpoints that send mail.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", metrics.Handler())
	r.Mount("/", server.Handler(limiter.Handler))

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"store", cfg.StoreDriver,
			"mail_provider", cfg.Mail.Provider,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore returns the repos for cfg.StoreDriver. The postgres driver
// verifies the connection and optionally applies migrations first.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repos, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn("using in-memory store; data is lost on restart")
		s := memrepo.NewStore()
		return repos{
			trips:        s.Trips(),
			participants: s.Participants(),
			activities:   s.Activities(),
			links:        s.Links(),
			close:        func() {},
		}, nil
	}

	// New() does not open connections immediately; the ping below does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return repos{}, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return repos{}, fmt.Errorf("ping: %w", err)
	}
	log.Info("database connection established")

	if cfg.MigrateOnStart {
		db := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return repos{}, err
		}
		log.Info("migrations applied", "count", n)
	}

	return repos{
		trips:        repo.NewTripRepo(pool),
		participants: repo.NewParticipantRepo(pool),
		activities:   repo.NewActivityRepo(pool),
		links:        repo.NewLinkRepo(pool),
		close:        pool.Close,
	}, nil
}
