package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/http"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/http/handlers"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/config"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/crypto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/events"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/observability"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/persistence"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/worker"
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

	cipher, err := crypto.NewCredentialCipher(cfg.Crypto.CredentialsKey)
	if err != nil {
		logger.Fatal("failed to init credential cipher", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	bookkeepingRepo := repository.NewBookkeepingRepository(pool)
	activityLogRepo := repository.NewActivityLogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService, err := service.NewAuthService(cfg, userRepo)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	userService := service.NewUserService(userRepo, announcementRepo, dispatcher, logger,
		cfg.Auth.BcryptCost, cfg.Auth.SystemUserID)
	companyService := service.NewCompanyService(companyRepo, cipher, logger)
	departmentService := service.NewDepartmentService(departmentRepo)
	courseService := service.NewCourseService(courseRepo, departmentRepo, userRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, redis.Client, dispatcher, logger)
	bookkeepingService := service.NewBookkeepingService(bookkeepingRepo)
	logService := service.NewLogService(activityLogRepo)
	auditService := service.NewAuditService(dispatcher, activityLogRepo, logger)

	worker.StartAuditWorker(auditService)

	guard := auth.NewAccessGuard(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// avatars arrive inline as data URLs
		BodyLimit: 16 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUsersHandler(userService),
		Directory:     handlers.NewDirectoryHandler(userService, courseService),
		Companies:     handlers.NewCompaniesHandler(companyService, cfg.Crawler.APIKey),
		Departments:   handlers.NewDepartmentsHandler(departmentService),
		Courses:       handlers.NewCoursesHandler(courseService),
		Announcements: handlers.NewAnnouncementsHandler(announcementService, userService, authService.TokenManager()),
		Bookkeeping:   handlers.NewBookkeepingHandler(bookkeepingService),
		Logs:          handlers.NewLogsHandler(logService),
		Guard:         guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
