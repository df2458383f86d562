package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tickethub/ticketing-system/internal/api/handler"
	"github.com/tickethub/ticketing-system/internal/api/middleware"
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
	"github.com/tickethub/ticketing-system/internal/core/service"
	"github.com/tickethub/ticketing-system/internal/infrastructure/crypto"
	mongorepo "github.com/tickethub/ticketing-system/internal/infrastructure/db/mongo"
	redisrepo "github.com/tickethub/ticketing-system/internal/infrastructure/db/redis"
)

// Deps carries the external collaborators the router wires together.
type Deps struct {
	DB        *mongo.Database
	Redis     *goredis.Client
	Identity  ports.IdentityProvider
	Audit     ports.AuditRecorder
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ticketing"))

	// --- Repositories ---
	var userRepo ports.UserRepository = mongorepo.NewUserRepository(deps.DB)
	if deps.Redis != nil {
		userRepo = redisrepo.NewCachedUserRepository(userRepo, deps.Redis, deps.Logger)
	}
	projectRepo := mongorepo.NewProjectRepository(deps.DB)
	taskRepo := mongorepo.NewTaskRepository(deps.DB)

	// --- Services ---
	taskService := service.NewTaskService(taskRepo, deps.Logger)
	projectService := service.NewProjectService(projectRepo, taskService, deps.Logger)
	userService := service.NewUserService(
		userRepo,
		projectService,
		taskService,
		crypto.NewBcryptEncoder(0),
		deps.Identity,
		deps.Audit,
		deps.Logger,
	)

	// --- Handlers ---
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	auth := middleware.Auth(deps.JWTSecret)

	// --- User directory routes (Admin and Manager only) ---
	user := e.Group("/api/v1/user", auth, middleware.RolesAllowed(domain.RoleAdmin, domain.RoleManager))
	user.GET("", userHandler.List)
	user.GET("/:username", userHandler.Get)
	user.POST("", userHandler.Create)
	user.PUT("", userHandler.Update)
	user.DELETE("/:username", userHandler.Delete)

	// --- Project routes ---
	project := e.Group("/api/v1/project", auth)
	managerOnly := middleware.RolesAllowed(domain.RoleManager)
	project.GET("", projectHandler.List, managerOnly)
	project.GET("/:projectCode", projectHandler.Get, managerOnly)
	project.POST("", projectHandler.Create, middleware.RolesAllowed(domain.RoleAdmin, domain.RoleManager))
	project.PUT("", projectHandler.Update, managerOnly)
	project.DELETE("/:projectCode", projectHandler.Delete, managerOnly)
	project.GET("/manager/project-status", projectHandler.ManagerProjects, managerOnly)
	project.PUT("/manager/complete/:projectCode", projectHandler.Complete, managerOnly)

	// --- Task routes ---
	task := e.Group("/api/v1/task", auth)
	employeeOnly := middleware.RolesAllowed(domain.RoleEmployee)
	task.GET("", taskHandler.List, managerOnly)
	task.GET("/:taskId", taskHandler.Get, managerOnly)
	task.POST("", taskHandler.Create, managerOnly)
	task.PUT("", taskHandler.Update, managerOnly)
	task.DELETE("/:taskId", taskHandler.Delete, managerOnly)
	task.GET("/employee/pending-tasks", taskHandler.PendingTasks, employeeOnly)
	task.PUT("/employee/update", taskHandler.EmployeeUpdate, employeeOnly)
	task.GET("/employee/archive", taskHandler.ArchivedTasks, employeeOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
