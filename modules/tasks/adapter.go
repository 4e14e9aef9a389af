package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TasksPort defines the interface for owner-scoped task operations.
type TasksPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskPayload, error)
	Get(ctx context.Context, id, ownerID string) (TaskPayload, error)
	List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskPayload, error)
	Delete(ctx context.Context, id, ownerID string) (TaskPayload, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// TasksAdapter implements TasksPort using the service container.
type TasksAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ TasksPort = (*TasksAdapter)(nil)

// NewTasksAdapter creates a new TasksAdapter.
func NewTasksAdapter(container mono.ServiceContainer) *TasksAdapter {
	return &TasksAdapter{
		container: container,
	}
}

func call[T1 any, T2 any](a *TasksAdapter, ctx context.Context, service string, req T1, resp *T2) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Create creates a task bound to the owner.
func (a *TasksAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskPayload, error) {
	var resp TaskPayload
	if err := call(a, ctx, "create", &req, &resp); err != nil {
		return TaskPayload{}, err
	}
	return resp, nil
}

// Get fetches one task, owner-scoped.
func (a *TasksAdapter) Get(ctx context.Context, id, ownerID string) (TaskPayload, error) {
	req := GetTaskRequest{ID: id, OwnerID: ownerID}
	var resp TaskPayload
	if err := call(a, ctx, "get", &req, &resp); err != nil {
		return TaskPayload{}, err
	}
	return resp, nil
}

// List fetches the owner's tasks matching the raw query parameters.
func (a *TasksAdapter) List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(a, ctx, "list", &req, &resp); err != nil {
		return ListTasksResponse{}, err
	}
	return resp, nil
}

// Update applies a whitelisted task update, owner-scoped.
func (a *TasksAdapter) Update(ctx context.Context, req UpdateTaskRequest) (TaskPayload, error) {
	var resp TaskPayload
	if err := call(a, ctx, "update", &req, &resp); err != nil {
		return TaskPayload{}, err
	}
	return resp, nil
}

// Delete removes one task, owner-scoped, returning its final state.
func (a *TasksAdapter) Delete(ctx context.Context, id, ownerID string) (TaskPayload, error) {
	req := DeleteTaskRequest{ID: id, OwnerID: ownerID}
	var resp TaskPayload
	if err := call(a, ctx, "delete", &req, &resp); err != nil {
		return TaskPayload{}, err
	}
	return resp, nil
}

// DeleteByOwner removes every task for the owner and reports the count.
func (a *TasksAdapter) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	req := DeleteByOwnerRequest{OwnerID: ownerID}
	var resp DeleteByOwnerResponse
	if err := call(a, ctx, "delete-by-owner", &req, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
