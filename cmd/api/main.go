package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	cannedRepo := repository.NewCannedResponseRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	policyRepo := repository.NewSLAPolicyRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	events.NewRedisPublisher(redis.Client, logger).Register(dispatcher)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Audit:    auditService,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		PolicyRepo:   policyRepo,
		UserRepo:     userRepo,
		AssetRepo:    assetRepo,
		Audit:        auditService,
		Dispatcher:   dispatcher,
	})
	ratingService := service.NewRatingService(service.RatingDependencies{
		RatingRepo: ratingRepo,
		TicketRepo: ticketRepo,
		Audit:      auditService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		EscalationRepo: escalationRepo,
		TicketRepo:     ticketRepo,
		PolicyRepo:     policyRepo,
		Audit:          auditService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	assetService := service.NewAssetService(service.AssetDependencies{
		AssetRepo:  assetRepo,
		UserRepo:   userRepo,
		Audit:      auditService,
		Dispatcher: dispatcher,
	})
	announcementService := service.NewAnnouncementService(service.AnnouncementDependencies{
		AnnouncementRepo: announcementRepo,
		Audit:            auditService,
		Dispatcher:       dispatcher,
	})
	cannedService := service.NewCannedResponseService(service.CannedResponseDependencies{
		ResponseRepo: cannedRepo,
		Audit:        auditService,
	})
	categoryService := service.NewCategoryService(service.CategoryDependencies{
		CategoryRepo: categoryRepo,
		Audit:        auditService,
	})
	slaPolicyService := service.NewSLAPolicyService(service.SLAPolicyDependencies{
		PolicyRepo: policyRepo,
		Audit:      auditService,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Cache:      redis.Client,
		CacheTTL:   cfg.Reports.CacheTTL(),
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	var slaMonitor *worker.SLAMonitor
	if cfg.SLA.Enabled {
		slaMonitor = worker.NewSLAMonitor(escalationService, cfg.SLA.CheckInterval(), logger)
		slaMonitor.Start(ctx)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:           handlers.NewUsersHandler(authService),
		Tickets:         handlers.NewTicketsHandler(ticketService, escalationService),
		Ratings:         handlers.NewRatingsHandler(ratingService),
		Assets:          handlers.NewAssetsHandler(assetService),
		Announcements:   handlers.NewAnnouncementsHandler(announcementService),
		Escalations:     handlers.NewEscalationsHandler(escalationService),
		Reports:         handlers.NewReportsHandler(reportService),
		Audit:           handlers.NewAuditHandler(auditService),
		CannedResponses: handlers.NewCannedResponsesHandler(cannedService),
		Categories:      handlers.NewCategoriesHandler(categoryService),
		SLAPolicies:     handlers.NewSLAPoliciesHandler(slaPolicyService),
		AuthMiddleware:  authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if slaMonitor != nil {
		slaMonitor.Stop()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
