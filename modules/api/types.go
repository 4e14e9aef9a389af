package api

import (
	"github.com/example/task-manager-api/modules/auth"
	"github.com/example/task-manager-api/modules/tasks"
)

// SignupRequest represents a signup request body.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// LoginRequest represents a login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse wraps a user payload with its freshly issued token, the shape
// returned by signup and login.
type AuthResponse struct {
	User  auth.UserPayload `json:"user"`
	Token string           `json:"token"`
}

// CreateTaskRequest represents a task creation body.
type CreateTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TaskResponse aliases the task payload returned by the tasks module.
type TaskResponse = tasks.TaskPayload

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
