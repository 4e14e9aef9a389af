package api

import (
	"context"
	"errors"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/example/task-manager-api/modules/auth"
	"github.com/example/task-manager-api/modules/tasks"
)

// mockAuthPort is a function-field fake for auth.AuthPort. Unset methods
// fail loudly so a test cannot silently exercise the wrong call.
type mockAuthPort struct {
	signupFn          func(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error)
	loginFn           func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	logoutFn          func(ctx context.Context, userID, token string) error
	logoutAllFn       func(ctx context.Context, userID string) error
	validateSessionFn func(ctx context.Context, token string) (*domain.Session, error)
	getUserFn         func(ctx context.Context, userID string) (auth.UserPayload, error)
	updateUserFn      func(ctx context.Context, req auth.UpdateUserRequest) (auth.UserPayload, error)
	deleteUserFn      func(ctx context.Context, userID string) (auth.UserPayload, error)
	setAvatarFn       func(ctx context.Context, userID, filename string, data []byte) error
	deleteAvatarFn    func(ctx context.Context, userID string) error
	getAvatarFn       func(ctx context.Context, userID string) ([]byte, error)
}

var errMockNotSet = errors.New("mock method not set")

func (m *mockAuthPort) Signup(ctx context.Context, req auth.SignupRequest) (auth.SignupResponse, error) {
	if m.signupFn == nil {
		return auth.SignupResponse{}, errMockNotSet
	}
	return m.signupFn(ctx, req)
}

func (m *mockAuthPort) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if m.loginFn == nil {
		return auth.LoginResponse{}, errMockNotSet
	}
	return m.loginFn(ctx, req)
}

func (m *mockAuthPort) Logout(ctx context.Context, userID, token string) error {
	if m.logoutFn == nil {
		return errMockNotSet
	}
	return m.logoutFn(ctx, userID, token)
}

func (m *mockAuthPort) LogoutAll(ctx context.Context, userID string) error {
	if m.logoutAllFn == nil {
		return errMockNotSet
	}
	return m.logoutAllFn(ctx, userID)
}

func (m *mockAuthPort) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.validateSessionFn == nil {
		return nil, errMockNotSet
	}
	return m.validateSessionFn(ctx, token)
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID string) (auth.UserPayload, error) {
	if m.getUserFn == nil {
		return auth.UserPayload{}, errMockNotSet
	}
	return m.getUserFn(ctx, userID)
}

func (m *mockAuthPort) UpdateUser(ctx context.Context, req auth.UpdateUserRequest) (auth.UserPayload, error) {
	if m.updateUserFn == nil {
		return auth.UserPayload{}, errMockNotSet
	}
	return m.updateUserFn(ctx, req)
}

func (m *mockAuthPort) DeleteUser(ctx context.Context, userID string) (auth.UserPayload, error) {
	if m.deleteUserFn == nil {
		return auth.UserPayload{}, errMockNotSet
	}
	return m.deleteUserFn(ctx, userID)
}

func (m *mockAuthPort) SetAvatar(ctx context.Context, userID, filename string, data []byte) error {
	if m.setAvatarFn == nil {
		return errMockNotSet
	}
	return m.setAvatarFn(ctx, userID, filename, data)
}

func (m *mockAuthPort) DeleteAvatar(ctx context.Context, userID string) error {
	if m.deleteAvatarFn == nil {
		return errMockNotSet
	}
	return m.deleteAvatarFn(ctx, userID)
}

func (m *mockAuthPort) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if m.getAvatarFn == nil {
		return nil, errMockNotSet
	}
	return m.getAvatarFn(ctx, userID)
}

// mockTasksPort is a function-field fake for tasks.TasksPort.
type mockTasksPort struct {
	createFn        func(ctx context.Context, req tasks.CreateTaskRequest) (tasks.TaskPayload, error)
	getFn           func(ctx context.Context, id, ownerID string) (tasks.TaskPayload, error)
	listFn          func(ctx context.Context, req tasks.ListTasksRequest) (tasks.ListTasksResponse, error)
	updateFn        func(ctx context.Context, req tasks.UpdateTaskRequest) (tasks.TaskPayload, error)
	deleteFn        func(ctx context.Context, id, ownerID string) (tasks.TaskPayload, error)
	deleteByOwnerFn func(ctx context.Context, ownerID string) (int64, error)
}

func (m *mockTasksPort) Create(ctx context.Context, req tasks.CreateTaskRequest) (tasks.TaskPayload, error) {
	if m.createFn == nil {
		return tasks.TaskPayload{}, errMockNotSet
	}
	return m.createFn(ctx, req)
}

func (m *mockTasksPort) Get(ctx context.Context, id, ownerID string) (tasks.TaskPayload, error) {
	if m.getFn == nil {
		return tasks.TaskPayload{}, errMockNotSet
	}
	return m.getFn(ctx, id, ownerID)
}

func (m *mockTasksPort) List(ctx context.Context, req tasks.ListTasksRequest) (tasks.ListTasksResponse, error) {
	if m.listFn == nil {
		return tasks.ListTasksResponse{}, errMockNotSet
	}
	return m.listFn(ctx, req)
}

func (m *mockTasksPort) Update(ctx context.Context, req tasks.UpdateTaskRequest) (tasks.TaskPayload, error) {
	if m.updateFn == nil {
		return tasks.TaskPayload{}, errMockNotSet
	}
	return m.updateFn(ctx, req)
}

func (m *mockTasksPort) Delete(ctx context.Context, id, ownerID string) (tasks.TaskPayload, error) {
	if m.deleteFn == nil {
		return tasks.TaskPayload{}, errMockNotSet
	}
	return m.deleteFn(ctx, id, ownerID)
}

func (m *mockTasksPort) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	if m.deleteByOwnerFn == nil {
		return 0, errMockNotSet
	}
	return m.deleteByOwnerFn(ctx, ownerID)
}
