package api

import (
	"encoding/json"

	"github.com/example/task-manager-api/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// allowedTaskUpdates is the task update whitelist.
var allowedTaskUpdates = map[string]bool{
	"description": true,
	"completed":   true,
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.tasks.Create(c.UserContext(), tasks.CreateTaskRequest{
		OwnerID:     s.UserID,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListTasks handles GET /tasks?completed&sortBy&skip&limit. The raw query
// parameters go to the tasks module untouched; translation happens there.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.tasks.List(c.UserContext(), tasks.ListTasksRequest{
		OwnerID:   s.UserID,
		Completed: c.Query("completed"),
		SortBy:    c.Query("sortBy"),
		Skip:      c.Query("skip"),
		Limit:     c.Query("limit"),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Tasks)
}

// GetTask handles GET /tasks/:id, owner-scoped.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	task, err := h.tasks.Get(c.UserContext(), c.Params("id"), s.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// UpdateTask handles PATCH /tasks/:id with whitelist enforcement on the raw
// body keys.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	fields, errMsg := parseWhitelisted(c.Body(), allowedTaskUpdates)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if len(fields) == 0 {
		return badRequest(c, "No fields to update")
	}

	req := tasks.UpdateTaskRequest{ID: c.Params("id"), OwnerID: s.UserID}
	if raw, ok := fields["description"]; ok {
		if err := json.Unmarshal(raw, &req.Description); err != nil {
			return badRequest(c, "Invalid value for field: description")
		}
	}
	if raw, ok := fields["completed"]; ok {
		if err := json.Unmarshal(raw, &req.Completed); err != nil {
			return badRequest(c, "Invalid value for field: completed")
		}
	}

	task, err := h.tasks.Update(c.UserContext(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// DeleteTask handles DELETE /tasks/:id, owner-scoped, returning the removed
// task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	task, err := h.tasks.Delete(c.UserContext(), c.Params("id"), s.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}
