package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/example/task-manager-api/modules/auth"
	"github.com/example/task-manager-api/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

const testToken = "test-token"

// newTestApp mounts the real routes over mock ports. The auth mock accepts
// testToken for user-1 unless a test overrides validateSessionFn.
func newTestApp(authPort *mockAuthPort, tasksPort *mockTasksPort) *fiber.App {
	if authPort.validateSessionFn == nil {
		authPort.validateSessionFn = func(_ context.Context, token string) (*domain.Session, error) {
			if token != testToken {
				return nil, errors.New("session validation failed: invalid token")
			}
			return &domain.Session{UserID: "user-1", Name: "Rakesh", Email: "rakesh@example.com", Token: token}, nil
		}
	}
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	RegisterRoutes(app, NewHandlers(authPort, tasksPort), authPort)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authorize(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSignupHandler(t *testing.T) {
	now := time.Now()

	t.Run("created", func(t *testing.T) {
		authPort := &mockAuthPort{
			signupFn: func(_ context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
				return auth.SignupResponse{
					User: auth.UserPayload{
						ID:        "user-1",
						Name:      req.Name,
						Email:     req.Email,
						Age:       req.Age,
						CreatedAt: now,
						UpdatedAt: now,
					},
					Token: "issued-token",
				}, nil
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(jsonRequest("POST", "/users", SignupRequest{
			Name: "Rakesh", Email: "rakesh@example.com", Password: "horsestaple", Age: 27,
		}))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
		}

		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var body AuthResponse
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.User.Email != "rakesh@example.com" {
			t.Errorf("user.Email = %q", body.User.Email)
		}
		if body.Token != "issued-token" {
			t.Errorf("token = %q", body.Token)
		}
		if strings.Contains(string(raw), "password") {
			t.Error("response body leaks a password field")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		authPort := &mockAuthPort{
			signupFn: func(_ context.Context, _ auth.SignupRequest) (auth.SignupResponse, error) {
				return auth.SignupResponse{}, errors.New("signup request failed: user with this email already exists")
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(jsonRequest("POST", "/users", SignupRequest{
			Name: "Rakesh", Email: "rakesh@example.com", Password: "horsestaple",
		}))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("validation message surfaces", func(t *testing.T) {
		authPort := &mockAuthPort{
			signupFn: func(_ context.Context, _ auth.SignupRequest) (auth.SignupResponse, error) {
				return auth.SignupResponse{}, errors.New("signup request failed: password must be at least 7 characters")
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(jsonRequest("POST", "/users", SignupRequest{
			Name: "Rakesh", Email: "rakesh@example.com", Password: "abc",
		}))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
		var body ErrorResponse
		decodeBody(t, resp, &body)
		if !strings.Contains(body.Message, "password must be at least 7 characters") {
			t.Errorf("message = %q", body.Message)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

		resp, err := app.Test(jsonRequest("POST", "/users/login", LoginRequest{Email: "a@example.com"}))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		authPort := &mockAuthPort{
			loginFn: func(_ context.Context, _ auth.LoginRequest) (auth.LoginResponse, error) {
				return auth.LoginResponse{}, errors.New("login request failed: invalid email or password")
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(jsonRequest("POST", "/users/login", LoginRequest{
			Email: "a@example.com", Password: "wrong",
		}))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

	routes := []struct {
		method string
		target string
	}{
		{"GET", "/users/me"},
		{"PATCH", "/users/me"},
		{"DELETE", "/users/me"},
		{"POST", "/users/logout"},
		{"POST", "/users/logoutAll"},
		{"POST", "/users/me/avatar"},
		{"DELETE", "/users/me/avatar"},
		{"POST", "/tasks"},
		{"GET", "/tasks"},
		{"GET", "/tasks/some-id"},
		{"PATCH", "/tasks/some-id"},
		{"DELETE", "/tasks/some-id"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(route.method, route.target, nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
			}
		})
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	t.Run("whitelisted fields pass through", func(t *testing.T) {
		var captured auth.UpdateUserRequest
		authPort := &mockAuthPort{
			updateUserFn: func(_ context.Context, req auth.UpdateUserRequest) (auth.UserPayload, error) {
				captured = req
				return auth.UserPayload{ID: req.UserID, Name: *req.Name}, nil
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(authorize(jsonRequest("PATCH", "/users/me", map[string]any{
			"name": "Rahul",
			"age":  30,
		})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}

		if captured.UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", captured.UserID)
		}
		if captured.Name == nil || *captured.Name != "Rahul" {
			t.Error("name not forwarded")
		}
		if captured.Age == nil || *captured.Age != 30 {
			t.Error("age not forwarded")
		}
		if captured.Email != nil || captured.Password != nil {
			t.Error("unset fields must stay nil")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

		resp, err := app.Test(authorize(jsonRequest("PATCH", "/users/me", map[string]any{
			"location": "Boston",
		})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
		var body ErrorResponse
		decodeBody(t, resp, &body)
		if !strings.Contains(body.Message, "location") {
			t.Errorf("message should name the bad field, got %q", body.Message)
		}
	})

	t.Run("empty body rejected", func(t *testing.T) {
		app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

		resp, err := app.Test(authorize(jsonRequest("PATCH", "/users/me", map[string]any{})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})
}

func TestDeleteAccountHandler(t *testing.T) {
	var calls []string
	authPort := &mockAuthPort{
		deleteUserFn: func(_ context.Context, userID string) (auth.UserPayload, error) {
			calls = append(calls, "delete-user")
			return auth.UserPayload{ID: userID, Email: "rakesh@example.com"}, nil
		},
	}
	tasksPort := &mockTasksPort{
		deleteByOwnerFn: func(_ context.Context, ownerID string) (int64, error) {
			calls = append(calls, "delete-tasks")
			if ownerID != "user-1" {
				t.Errorf("ownerID = %q, want user-1", ownerID)
			}
			return 3, nil
		},
	}
	app := newTestApp(authPort, tasksPort)

	resp, err := app.Test(authorize(httptest.NewRequest("DELETE", "/users/me", nil)))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body auth.UserPayload
	decodeBody(t, resp, &body)
	if body.Email != "rakesh@example.com" {
		t.Errorf("deleted user email = %q", body.Email)
	}

	// Tasks must be gone before the account so nothing can outlive its owner.
	if len(calls) != 2 || calls[0] != "delete-tasks" || calls[1] != "delete-user" {
		t.Errorf("call order = %v, want [delete-tasks delete-user]", calls)
	}
}

func TestTaskHandlers(t *testing.T) {
	now := time.Now()

	t.Run("create", func(t *testing.T) {
		tasksPort := &mockTasksPort{
			createFn: func(_ context.Context, req tasks.CreateTaskRequest) (tasks.TaskPayload, error) {
				if req.OwnerID != "user-1" {
					t.Errorf("OwnerID = %q, want user-1", req.OwnerID)
				}
				return tasks.TaskPayload{
					ID: "task-1", Description: req.Description, Completed: req.Completed,
					OwnerID: req.OwnerID, CreatedAt: now, UpdatedAt: now,
				}, nil
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(jsonRequest("POST", "/tasks", CreateTaskRequest{Description: "buy milk"})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
		}
		var body TaskResponse
		decodeBody(t, resp, &body)
		if body.Description != "buy milk" {
			t.Errorf("description = %q", body.Description)
		}
	})

	t.Run("list forwards raw query and returns bare array", func(t *testing.T) {
		tasksPort := &mockTasksPort{
			listFn: func(_ context.Context, req tasks.ListTasksRequest) (tasks.ListTasksResponse, error) {
				if req.Completed != "true" || req.SortBy != "createdAt_desc" || req.Skip != "10" || req.Limit != "5" {
					t.Errorf("query not forwarded verbatim: %+v", req)
				}
				return tasks.ListTasksResponse{
					Tasks: []tasks.TaskPayload{{ID: "task-1", OwnerID: req.OwnerID}},
					Total: 1,
				}, nil
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(httptest.NewRequest(
			"GET", "/tasks?completed=true&sortBy=createdAt_desc&skip=10&limit=5", nil)))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}

		var body []TaskResponse
		decodeBody(t, resp, &body)
		if len(body) != 1 || body[0].ID != "task-1" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("get missing task", func(t *testing.T) {
		tasksPort := &mockTasksPort{
			getFn: func(_ context.Context, _, _ string) (tasks.TaskPayload, error) {
				return tasks.TaskPayload{}, errors.New("get request failed: task not found")
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(httptest.NewRequest("GET", "/tasks/missing-id", nil)))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})

	t.Run("malformed id is a server fault", func(t *testing.T) {
		tasksPort := &mockTasksPort{
			getFn: func(_ context.Context, _, _ string) (tasks.TaskPayload, error) {
				return tasks.TaskPayload{}, errors.New("get request failed: malformed task id: 12345")
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(httptest.NewRequest("GET", "/tasks/12345", nil)))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusInternalServerError)
		}
	})

	t.Run("update whitelist", func(t *testing.T) {
		app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

		resp, err := app.Test(authorize(jsonRequest("PATCH", "/tasks/task-1", map[string]any{
			"owner_id": "someone-else",
		})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("update forwards pointer fields", func(t *testing.T) {
		var captured tasks.UpdateTaskRequest
		tasksPort := &mockTasksPort{
			updateFn: func(_ context.Context, req tasks.UpdateTaskRequest) (tasks.TaskPayload, error) {
				captured = req
				return tasks.TaskPayload{ID: req.ID, OwnerID: req.OwnerID}, nil
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(jsonRequest("PATCH", "/tasks/task-1", map[string]any{
			"completed": true,
		})))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}

		if captured.ID != "task-1" || captured.OwnerID != "user-1" {
			t.Errorf("scope not forwarded: %+v", captured)
		}
		if captured.Completed == nil || !*captured.Completed {
			t.Error("completed not forwarded")
		}
		if captured.Description != nil {
			t.Error("description must stay nil")
		}
	})

	t.Run("delete returns the removed task", func(t *testing.T) {
		tasksPort := &mockTasksPort{
			deleteFn: func(_ context.Context, id, ownerID string) (tasks.TaskPayload, error) {
				return tasks.TaskPayload{ID: id, OwnerID: ownerID, Description: "gone"}, nil
			},
		}
		app := newTestApp(&mockAuthPort{}, tasksPort)

		resp, err := app.Test(authorize(httptest.NewRequest("DELETE", "/tasks/task-1", nil)))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		var body TaskResponse
		decodeBody(t, resp, &body)
		if body.Description != "gone" {
			t.Errorf("body = %+v", body)
		}
	})
}

func TestAvatarHandlers(t *testing.T) {
	t.Run("upload", func(t *testing.T) {
		var storedName string
		var storedData []byte
		authPort := &mockAuthPort{
			setAvatarFn: func(_ context.Context, userID, filename string, data []byte) error {
				if userID != "user-1" {
					t.Errorf("userID = %q, want user-1", userID)
				}
				storedName = filename
				storedData = data
				return nil
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("avatar", "profile-pic.png")
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		image := []byte{0x89, 0x50, 0x4e, 0x47}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write part: %v", err)
		}
		writer.Close()

		req := httptest.NewRequest("POST", "/users/me/avatar", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := app.Test(authorize(req))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		if storedName != "profile-pic.png" {
			t.Errorf("filename = %q", storedName)
		}
		if !bytes.Equal(storedData, image) {
			t.Error("stored bytes differ from the upload")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		app := newTestApp(&mockAuthPort{}, &mockTasksPort{})

		resp, err := app.Test(authorize(httptest.NewRequest("POST", "/users/me/avatar", nil)))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
		}
	})

	t.Run("serve is public and png", func(t *testing.T) {
		image := []byte{0x89, 0x50, 0x4e, 0x47}
		authPort := &mockAuthPort{
			getAvatarFn: func(_ context.Context, userID string) ([]byte, error) {
				if userID != "user-2" {
					return nil, errors.New("get-avatar request failed: user not found")
				}
				return image, nil
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(httptest.NewRequest("GET", "/users/user-2/avatar", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		if got := resp.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", got)
		}
		body, _ := io.ReadAll(resp.Body)
		if !bytes.Equal(body, image) {
			t.Error("served bytes differ from the stored avatar")
		}
	})

	t.Run("serve missing avatar", func(t *testing.T) {
		authPort := &mockAuthPort{
			getAvatarFn: func(_ context.Context, _ string) ([]byte, error) {
				return nil, errors.New("get-avatar request failed: user not found")
			},
		}
		app := newTestApp(authPort, &mockTasksPort{})

		resp, err := app.Test(httptest.NewRequest("GET", "/users/nobody/avatar", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
		}
	})
}
