package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/task-manager-api/modules/api"
	"github.com/example/task-manager-api/modules/auth"
	"github.com/example/task-manager-api/modules/events"
	"github.com/example/task-manager-api/modules/notifier"
	"github.com/example/task-manager-api/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Manager API ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// The event bus is shared by constructor injection: auth publishes
	// account events, notifier turns them into emails.
	eventsModule := events.NewModule()
	bus := eventsModule.GetBus()

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(eventsModule)
	app.Register(notifier.NewModule(bus, nil))
	app.Register(auth.NewModule(bus))
	app.Register(tasks.NewModule())
	app.Register(api.NewModule()) // Depends on auth and tasks modules

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /users             - Sign up")
	log.Println("  POST   /users/login       - Log in")
	log.Println("  GET    /users/:id/avatar  - Fetch a user's avatar")
	log.Println("  GET    /health            - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /users/logout      - End current session")
	log.Println("  POST   /users/logoutAll   - End every session")
	log.Println("  GET    /users/me          - Get profile")
	log.Println("  PATCH  /users/me          - Update profile")
	log.Println("  DELETE /users/me          - Delete account (and its tasks)")
	log.Println("  POST   /users/me/avatar   - Upload avatar")
	log.Println("  DELETE /users/me/avatar   - Remove avatar")
	log.Println("  POST   /tasks             - Create task")
	log.Println("  GET    /tasks             - List tasks (completed, sortBy, skip, limit)")
	log.Println("  GET    /tasks/:id         - Get task")
	log.Println("  PATCH  /tasks/:id         - Update task")
	log.Println("  DELETE /tasks/:id         - Delete task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
