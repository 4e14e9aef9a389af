package tasks

import (
	"time"

	domain "github.com/example/task-manager-api/domain/task"
)

// TaskPayload represents a task in responses.
type TaskPayload struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTaskPayload converts a Task entity to a TaskPayload.
func ToTaskPayload(task *domain.Task) TaskPayload {
	return TaskPayload{
		ID:          task.ID,
		Description: task.Description,
		Completed:   task.Completed,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// GetTaskRequest is the request for getting a task by id, owner-scoped.
type GetTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// ListTasksRequest carries the raw query parameters plus the owner scope.
type ListTasksRequest struct {
	OwnerID   string `json:"owner_id"`
	Completed string `json:"completed,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	Skip      string `json:"skip,omitempty"`
	Limit     string `json:"limit,omitempty"`
}

// ListTasksResponse is the response containing the matching tasks.
type ListTasksResponse struct {
	Tasks []TaskPayload `json:"tasks"`
	Total int           `json:"total"`
}

// UpdateTaskRequest is the whitelisted task update. Unknown field names are
// rejected at the API boundary before this shape is built.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task, owner-scoped.
type DeleteTaskRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// DeleteByOwnerRequest removes every task for an owner; used by the account
// deletion cascade.
type DeleteByOwnerRequest struct {
	OwnerID string `json:"owner_id"`
}

// DeleteByOwnerResponse reports how many tasks the cascade removed.
type DeleteByOwnerResponse struct {
	Deleted int64 `json:"deleted"`
}
