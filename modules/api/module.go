package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/example/task-manager-api/modules/auth"
	"github.com/example/task-manager-api/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth  auth.AuthPort
	tasks tasks.TasksPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, tasksPort tasks.TasksPort) *Handlers {
	return &Handlers{
		auth:  authPort,
		tasks: tasksPort,
	}
}

// APIModule is the HTTP API module.
type APIModule struct {
	app          *fiber.App
	port         int
	authAdapter  auth.AuthPort
	tasksAdapter tasks.TasksPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := 3000
	if p, err := strconv.Atoi(os.Getenv("API_PORT")); err == nil && p > 0 {
		port = p
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "tasks"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "tasks":
		m.tasksAdapter = tasks.NewTasksAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasksAdapter == nil {
		return fmt.Errorf("tasks dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		BodyLimit:             2 * 1024 * 1024,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	// Setup routes
	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(fmt.Sprintf(":%d", m.port)); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authAdapter, m.tasksAdapter)
	RegisterRoutes(m.app, handlers, m.authAdapter)
}

// RegisterRoutes mounts the full HTTP surface on app. Split out from the
// module so tests can mount the same routes on a bare Fiber app.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authPort auth.AuthPort) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	authenticated := AuthMiddleware(authPort)

	// Public routes
	app.Post("/users", handlers.Signup)
	app.Post("/users/login", handlers.Login)

	// Protected user routes. /users/me/avatar must be mounted before the
	// public /users/:id/avatar wildcard.
	app.Post("/users/logout", authenticated, handlers.Logout)
	app.Post("/users/logoutAll", authenticated, handlers.LogoutAll)
	app.Get("/users/me", authenticated, handlers.Profile)
	app.Patch("/users/me", authenticated, handlers.UpdateProfile)
	app.Delete("/users/me", authenticated, handlers.DeleteAccount)
	app.Post("/users/me/avatar", authenticated, handlers.UploadAvatar)
	app.Delete("/users/me/avatar", authenticated, handlers.DeleteAvatar)
	app.Get("/users/:id/avatar", handlers.GetAvatar)

	// Task routes, all owner-scoped behind authentication
	app.Post("/tasks", authenticated, handlers.CreateTask)
	app.Get("/tasks", authenticated, handlers.ListTasks)
	app.Get("/tasks/:id", authenticated, handlers.GetTask)
	app.Patch("/tasks/:id", authenticated, handlers.UpdateTask)
	app.Delete("/tasks/:id", authenticated, handlers.DeleteTask)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
