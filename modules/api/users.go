package api

import (
	"encoding/json"
	"fmt"
	"io"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/example/task-manager-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// allowedUserUpdates is the profile update whitelist. Requests naming any
// other field are rejected before the store is touched.
var allowedUserUpdates = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// session returns the authenticated session set by the auth middleware.
func session(c *fiber.Ctx) (*domain.Session, bool) {
	s, ok := c.Locals(SessionContextKey).(*domain.Session)
	return s, ok
}

// Signup handles POST /users.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.auth.Signup(c.UserContext(), auth.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		User:  resp.User,
		Token: resp.Token,
	})
}

// Login handles POST /users/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := h.auth.Login(c.UserContext(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(AuthResponse{
		User:  resp.User,
		Token: resp.Token,
	})
}

// Logout handles POST /users/logout: removes exactly the presented token.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.auth.Logout(c.UserContext(), s.UserID, s.Token); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// LogoutAll handles POST /users/logoutAll: clears the whole session list.
func (h *Handlers) LogoutAll(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.auth.LogoutAll(c.UserContext(), s.UserID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// Profile handles GET /users/me.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	user, err := h.auth.GetUser(c.UserContext(), s.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateProfile handles PATCH /users/me with whitelist enforcement on the
// raw body keys.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	fields, errMsg := parseWhitelisted(c.Body(), allowedUserUpdates)
	if errMsg != "" {
		return badRequest(c, errMsg)
	}
	if len(fields) == 0 {
		return badRequest(c, "No fields to update")
	}

	req := auth.UpdateUserRequest{UserID: s.UserID}
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &req.Name); err != nil {
			return badRequest(c, "Invalid value for field: name")
		}
	}
	if raw, ok := fields["email"]; ok {
		if err := json.Unmarshal(raw, &req.Email); err != nil {
			return badRequest(c, "Invalid value for field: email")
		}
	}
	if raw, ok := fields["password"]; ok {
		if err := json.Unmarshal(raw, &req.Password); err != nil {
			return badRequest(c, "Invalid value for field: password")
		}
	}
	if raw, ok := fields["age"]; ok {
		if err := json.Unmarshal(raw, &req.Age); err != nil {
			return badRequest(c, "Invalid value for field: age")
		}
	}

	user, err := h.auth.UpdateUser(c.UserContext(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteAccount handles DELETE /users/me. Owned tasks are removed first so
// no task can outlive its owner, then the account itself is deleted; the
// cancellation email is triggered by the auth module's post-commit event.
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.tasks.DeleteByOwner(c.UserContext(), s.UserID); err != nil {
		return handleServiceError(c, err)
	}

	user, err := h.auth.DeleteUser(c.UserContext(), s.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// UploadAvatar handles POST /users/me/avatar (multipart field "avatar").
func (h *Handlers) UploadAvatar(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "Avatar file is required")
	}
	if fileHeader.Size > auth.MaxAvatarSize {
		return badRequest(c, "Avatar must be at most 1MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Invalid avatar upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "Invalid avatar upload")
	}

	if err := h.auth.SetAvatar(c.UserContext(), s.UserID, fileHeader.Filename, data); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *Handlers) DeleteAvatar(c *fiber.Ctx) error {
	s, ok := session(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.auth.DeleteAvatar(c.UserContext(), s.UserID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetAvatar handles GET /users/:id/avatar. Public route: avatars are served
// for any user id that has one.
func (h *Handlers) GetAvatar(c *fiber.Ctx) error {
	data, err := h.auth.GetAvatar(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(data)
}

// parseWhitelisted decodes a JSON object and rejects any key outside the
// allowed set. The second return value is a response message; empty means
// the body passed.
func parseWhitelisted(body []byte, allowed map[string]bool) (map[string]json.RawMessage, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, "Invalid request body"
	}
	for key := range fields {
		if !allowed[key] {
			return nil, fmt.Sprintf("Invalid update field: %s", key)
		}
	}
	return fields, ""
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "Please authenticate",
	})
}
