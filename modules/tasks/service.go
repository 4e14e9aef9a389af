package tasks

import (
	"context"
	"errors"
	"strings"

	domain "github.com/example/task-manager-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// ErrInvalidDescription is returned when the description is missing.
var ErrInvalidDescription = errors.New("description is required")

// createTask handles the create service request.
func (m *TasksModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskPayload, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return TaskPayload{}, ErrInvalidDescription
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Description: description,
		Completed:   req.Completed,
		OwnerID:     req.OwnerID,
	}

	if err := m.repo.Create(task); err != nil {
		return TaskPayload{}, err
	}

	return ToTaskPayload(task), nil
}

// getTask handles the get service request.
func (m *TasksModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskPayload, error) {
	task, err := m.repo.FindByID(req.ID, req.OwnerID)
	if err != nil {
		return TaskPayload{}, err
	}
	return ToTaskPayload(task), nil
}

// listTasks handles the list service request: the raw query parameters are
// translated and the result is always scoped to the owner.
func (m *TasksModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	q := ParseListQuery(req.Completed, req.SortBy, req.Skip, req.Limit)

	found, err := m.repo.FindByOwner(req.OwnerID, q)
	if err != nil {
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks: make([]TaskPayload, 0, len(found)),
		Total: len(found),
	}
	for _, task := range found {
		response.Tasks = append(response.Tasks, ToTaskPayload(task))
	}
	return response, nil
}

// updateTask handles the update service request.
func (m *TasksModule) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskPayload, error) {
	task, err := m.repo.FindByID(req.ID, req.OwnerID)
	if err != nil {
		return TaskPayload{}, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return TaskPayload{}, ErrInvalidDescription
		}
		task.Description = description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := m.repo.Update(task); err != nil {
		return TaskPayload{}, err
	}

	updated, err := m.repo.FindByID(req.ID, req.OwnerID)
	if err != nil {
		return TaskPayload{}, err
	}
	return ToTaskPayload(updated), nil
}

// deleteTask handles the delete service request and returns the removed task.
func (m *TasksModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (TaskPayload, error) {
	task, err := m.repo.FindByID(req.ID, req.OwnerID)
	if err != nil {
		return TaskPayload{}, err
	}

	if err := m.repo.Delete(req.ID, req.OwnerID); err != nil {
		return TaskPayload{}, err
	}

	return ToTaskPayload(task), nil
}

// deleteByOwner handles the account-deletion cascade.
func (m *TasksModule) deleteByOwner(_ context.Context, req DeleteByOwnerRequest, _ *mono.Msg) (DeleteByOwnerResponse, error) {
	deleted, err := m.repo.DeleteByOwner(req.OwnerID)
	if err != nil {
		return DeleteByOwnerResponse{}, err
	}
	return DeleteByOwnerResponse{Deleted: deleted}, nil
}
