package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/taskera/backend/internal/config"
	"github.com/taskera/backend/internal/core/services"
	"github.com/taskera/backend/internal/infrastructure/db"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"github.com/taskera/backend/internal/infrastructure/media"
	"github.com/taskera/backend/internal/realtime"
	"github.com/taskera/backend/internal/transport/http/handlers"
	httpmw "github.com/taskera/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

// SetupRoutes wires repositories, services and handlers onto the app and
// returns the change feed hub so the caller can close it on shutdown.
func SetupRoutes(app *fiber.App, cfg RouterConfig) *realtime.Hub {
	// Repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	sessionRepo := db.NewSessionRepository(cfg.DB, cfg.Logger)

	// Infrastructure collaborators
	hub := realtime.NewHub(cfg.Logger)
	uploader := media.NewClient(cfg.Config.Media, cfg.Logger)

	// Services
	authService := services.NewAuthService(services.AuthServiceConfig{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Logger:      cfg.Logger,
		SessionTTL:  cfg.Config.Auth.SessionTTL,
		BcryptCost:  cfg.Config.Auth.BcryptCost,
	})

	taskService := services.NewTaskService(services.TaskServiceConfig{
		TaskRepo:  taskRepo,
		UserRepo:  userRepo,
		Uploader:  uploader,
		Publisher: hub,
		Logger:    cfg.Logger,
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Logger)
	userHandler := handlers.NewUserHandler(authService, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)
	statsHandler := handlers.NewStatsHandler(taskService, cfg.Logger)
	feedHandler := handlers.NewFeedHandler(hub, cfg.Logger)

	requireAuth := httpmw.RequireAuth(authService)

	// Change feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/tasks", requireAuth, websocket.New(feedHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/signout", requireAuth, authHandler.SignOut)
	auth.Get("/me", requireAuth, authHandler.Me)

	// User routes (admin only)
	users := api.Group("/users", requireAuth, httpmw.RequireAdmin())
	users.Get("/", userHandler.GetUsers)
	users.Post("/", userHandler.CreateUser)

	// Task routes
	tasks := api.Group("/tasks", requireAuth)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Get("/calendar", taskHandler.GetCalendar)
	tasks.Post("/", httpmw.RequireAdmin(), taskHandler.CreateTask)
	tasks.Put("/:id", httpmw.RequireAdmin(), taskHandler.UpdateTask)
	tasks.Post("/:id/transition", taskHandler.Transition)

	// Statistics
	api.Get("/stats", requireAuth, statsHandler.GetStats)

	return hub
}
