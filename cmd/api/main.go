package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/leadflow-api/internal/application/auth"
	"github.com/jhoicas/leadflow-api/internal/application/tasks"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/internal/infrastructure/notify"
	"github.com/jhoicas/leadflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/leadflow-api/internal/interfaces/http"
	"github.com/jhoicas/leadflow-api/pkg/config"
	"github.com/jhoicas/leadflow-api/pkg/logger"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.App.Name, reg)

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	appRepo := postgres.NewApplicationRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	guard := usecase.NewGuard(teamRepo, m, log)
	leadUC := usecase.NewLeadUseCase(leadRepo, guard)
	applicationUC := usecase.NewApplicationUseCase(appRepo, leadRepo, guard)
	taskUC := usecase.NewTaskUseCase(taskRepo, appRepo, guard, cfg.App.Location())
	directoryUC := usecase.NewDirectoryUseCase(userRepo, teamRepo, guard)
	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Canal "task created": Redis pub/sub si hay REDIS_ADDR; si no, solo log.
	var notifier tasks.Notifier = notify.NewLogNotifier(log)
	if cfg.Redis.Addr != "" {
		rdb := notify.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; las notificaciones fallarán hasta que responda")
		}
		notifier = notify.NewRedisNotifier(rdb, cfg.Notify.Channel, log)
	}
	dispatcher := tasks.NewDispatcher(notifier, cfg.Notify.Timeout, log, m)
	createTaskUC := tasks.NewCreateTaskUseCase(taskRepo, appRepo, guard, dispatcher,
		tasks.WithLogger(log), tasks.WithMetrics(m))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		LeadUC:         leadUC,
		ApplicationUC:  applicationUC,
		TaskUC:         taskUC,
		DirectoryUC:    directoryUC,
		CreateTask:     createTaskUC,
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Metrics:        m,
		Gatherer:       reg,
		Logger:         log,
	}
	httpRouter.Middleware(app, deps)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Leadflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
