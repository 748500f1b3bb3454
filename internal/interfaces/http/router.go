package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/leadflow-api/internal/application/auth"
	"github.com/jhoicas/leadflow-api/internal/application/usecase"
	"github.com/jhoicas/leadflow-api/internal/domain/entity"
	"github.com/jhoicas/leadflow-api/pkg/logger"
	"github.com/jhoicas/leadflow-api/pkg/metrics"
)

const createTaskPath = "/api/create-task"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	LeadUC         *usecase.LeadUseCase
	ApplicationUC  *usecase.ApplicationUseCase
	TaskUC         *usecase.TaskUseCase
	DirectoryUC    *usecase.DirectoryUseCase
	CreateTask     TaskCreator
	JWTSecret      string
	AllowedOrigins string
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         *logger.Logger
}

// Middleware registra la cadena común: recover, request id, log, métricas y CORS.
// El preflight de create-task lo responde su propio handler con 200.
func Middleware(app *fiber.App, deps RouterDeps) {
	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.AllowedOrigins,
		AllowHeaders: corsAllowHeaders,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions && c.Path() == createTaskPath
		},
	}))
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Endpoint de creación de tareas: OPTIONS → 200, POST autenticado, resto → 405.
	createTask := NewCreateTaskHandler(deps.CreateTask, deps.AllowedOrigins, log)
	app.Options(createTaskPath, createTask.Preflight)
	app.Post(createTaskPath, AuthMiddleware(deps.JWTSecret), createTask.Create)
	app.All(createTaskPath, createTask.MethodNotAllowed)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token). La autorización por fila la hacen los casos de uso.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleCounselor))

	leads := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC, log)
	appHandler := NewApplicationHandler(deps.ApplicationUC, deps.TaskUC, log)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)
	leads.Get("/:id/applications", appHandler.ListByLead)
	leads.Post("/:id/applications", appHandler.Create)

	applications := protected.Group("/applications")
	applications.Get("/:id", appHandler.GetByID)
	applications.Put("/:id", appHandler.Update)
	applications.Delete("/:id", appHandler.Delete)
	applications.Get("/:id/tasks", appHandler.ListTasks)

	tasksGroup := protected.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC, log)
	tasksGroup.Get("/today", taskHandler.Today)
	tasksGroup.Get("/overdue", taskHandler.Overdue)
	tasksGroup.Get("/:id", taskHandler.GetByID)
	tasksGroup.Patch("/:id", taskHandler.Update)
	tasksGroup.Delete("/:id", taskHandler.Delete)
	tasksGroup.Post("/:id/complete", taskHandler.Complete)

	dirHandler := NewDirectoryHandler(deps.DirectoryUC, log)
	protected.Get("/users", dirHandler.ListUsers)
	protected.Post("/users", RequireRole(entity.RoleAdmin), authHandler.CreateUser)
	protected.Get("/teams", dirHandler.ListTeams)
	protected.Post("/teams", dirHandler.CreateTeam)
	protected.Get("/teams/:id/members", dirHandler.ListMembers)
	protected.Post("/teams/:id/members", dirHandler.AddMember)
	protected.Delete("/teams/:id/members/:userId", dirHandler.RemoveMember)
}
