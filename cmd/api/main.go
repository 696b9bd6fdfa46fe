package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/society-api/internal/api/http"
	"github.com/spec-kit/society-api/internal/api/http/handlers"
	"github.com/spec-kit/society-api/internal/auth"
	"github.com/spec-kit/society-api/internal/cache"
	"github.com/spec-kit/society-api/internal/config"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/media"
	"github.com/spec-kit/society-api/internal/observability"
	"github.com/spec-kit/society-api/internal/persistence"
	"github.com/spec-kit/society-api/internal/repository"
	"github.com/spec-kit/society-api/internal/repository/memory"
	"github.com/spec-kit/society-api/internal/service"
	"github.com/spec-kit/society-api/internal/worker"
)

type repositories struct {
	users         repository.UserRepository
	events        repository.EventRepository
	announcements repository.AnnouncementRepository
	teamMembers   repository.TeamMemberRepository
	registrations repository.RegistrationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handlers.Pinger{}
	var repos repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		checks["postgres"] = pg

		pool := pg.PoolHandle()
		repos = repositories{
			users:         repository.NewUserRepository(pool),
			events:        repository.NewEventRepository(pool),
			announcements: repository.NewAnnouncementRepository(pool),
			teamMembers:   repository.NewTeamMemberRepository(pool),
			registrations: repository.NewRegistrationRepository(pool),
		}
	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			users:         store.Users(),
			events:        store.Events(),
			announcements: store.Announcements(),
			teamMembers:   store.TeamMembers(),
			registrations: store.Registrations(),
		}
	}

	var listCache cache.ListCache = cache.Noop{}
	if rdb := persistence.NewRedis(ctx, cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		checks["redis"] = rdb
		listCache = cache.NewRedisListCache(rdb.Client, cfg.Redis.CacheTTL)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(dispatcher, notifier, logger)

	deps := service.Deps{Dispatcher: dispatcher, Cache: listCache, Logger: logger}
	authService := service.NewAuthService(cfg.Auth, repos.users, deps)
	userService := service.NewUserService(repos.users, deps)
	eventService := service.NewEventService(repos.events, cfg.App.PublicURL, deps)
	announcementService := service.NewAnnouncementService(repos.announcements, deps)
	teamService := service.NewTeamMemberService(repos.teamMembers, deps)
	registrationService := service.NewRegistrationService(repos.registrations, deps)

	if created, err := authService.SeedAdmin(ctx, cfg.Admin); err != nil {
		logger.Error("admin seed failed", zap.Error(err))
	} else if !created {
		logger.Info("admin account already exists")
	}

	var host media.ImageHost = media.Unconfigured{}
	if cfg.S3.Enabled() {
		s3Host, err := media.NewS3Host(cfg.S3)
		if err != nil {
			logger.Fatal("failed to init image host", zap.Error(err))
		}
		host = s3Host
	} else {
		logger.Info("S3_BUCKET not set; uploads disabled")
	}
	uploadService := service.NewUploadService(cfg.Upload, host, logger)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks, metrics),
		Users:          handlers.NewUsersHandler(authService, userService),
		Events:         handlers.NewEventsHandler(eventService),
		Announcements:  handlers.NewAnnouncementsHandler(announcementService),
		TeamMembers:    handlers.NewTeamMembersHandler(teamService),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Uploads:        handlers.NewUploadsHandler(uploadService, cfg.Upload.MaxBytes),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.users),
		RateLimiter:    httptransport.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.App.RequestTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	notifications.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
