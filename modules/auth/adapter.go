package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for account and session operations.
// This is the port other modules use to access auth functionality.
type AuthPort interface {
	Signup(ctx context.Context, req SignupRequest) (SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	ValidateSession(ctx context.Context, token string) (*domain.Session, error)
	GetUser(ctx context.Context, userID string) (UserPayload, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (UserPayload, error)
	DeleteUser(ctx context.Context, userID string) (UserPayload, error)
	SetAvatar(ctx context.Context, userID, filename string, data []byte) error
	DeleteAvatar(ctx context.Context, userID string) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func call[T1 any, T2 any](a *AuthAdapter, ctx context.Context, service string, req T1, resp *T2) error {
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

// Signup creates a new account and returns the user plus its first token.
func (a *AuthAdapter) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	var resp SignupResponse
	if err := call(a, ctx, "signup", &req, &resp); err != nil {
		return SignupResponse{}, err
	}
	return resp, nil
}

// Login authenticates and returns the user plus a fresh token.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := call(a, ctx, "login", &req, &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Logout removes the presented session token.
func (a *AuthAdapter) Logout(ctx context.Context, userID, token string) error {
	req := LogoutRequest{UserID: userID, Token: token}
	var resp LogoutResponse
	return call(a, ctx, "logout", &req, &resp)
}

// LogoutAll clears every session the user holds.
func (a *AuthAdapter) LogoutAll(ctx context.Context, userID string) error {
	req := LogoutAllRequest{UserID: userID}
	var resp LogoutResponse
	return call(a, ctx, "logout-all", &req, &resp)
}

// ValidateSession validates a bearer token and returns the live session.
func (a *AuthAdapter) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	req := ValidateSessionRequest{Token: token}
	var resp ValidateSessionResponse

	if err := call(a, ctx, "validate-session", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		return nil, fmt.Errorf("session validation failed: %s", resp.Error)
	}

	return &domain.Session{
		UserID:    resp.UserID,
		Name:      resp.User.Name,
		Email:     resp.User.Email,
		Age:       resp.User.Age,
		Token:     token,
		CreatedAt: resp.User.CreatedAt,
		UpdatedAt: resp.User.UpdatedAt,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (UserPayload, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := call(a, ctx, "get-user", &req, &resp); err != nil {
		return UserPayload{}, err
	}
	return resp.User, nil
}

// UpdateUser applies a whitelisted profile update.
func (a *AuthAdapter) UpdateUser(ctx context.Context, req UpdateUserRequest) (UserPayload, error) {
	var resp UpdateUserResponse
	if err := call(a, ctx, "update-user", &req, &resp); err != nil {
		return UserPayload{}, err
	}
	return resp.User, nil
}

// DeleteUser removes the account and returns its final state.
func (a *AuthAdapter) DeleteUser(ctx context.Context, userID string) (UserPayload, error) {
	req := DeleteUserRequest{UserID: userID}
	var resp DeleteUserResponse
	if err := call(a, ctx, "delete-user", &req, &resp); err != nil {
		return UserPayload{}, err
	}
	return resp.User, nil
}

// SetAvatar stores avatar bytes for the user.
func (a *AuthAdapter) SetAvatar(ctx context.Context, userID, filename string, data []byte) error {
	req := SetAvatarRequest{UserID: userID, Filename: filename, Data: data}
	var resp SetAvatarResponse
	return call(a, ctx, "set-avatar", &req, &resp)
}

// DeleteAvatar clears the stored avatar.
func (a *AuthAdapter) DeleteAvatar(ctx context.Context, userID string) error {
	req := DeleteAvatarRequest{UserID: userID}
	var resp DeleteAvatarResponse
	return call(a, ctx, "delete-avatar", &req, &resp)
}

// GetAvatar returns the stored avatar bytes for any user id.
func (a *AuthAdapter) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	req := GetAvatarRequest{UserID: userID}
	var resp GetAvatarResponse
	if err := call(a, ctx, "get-avatar", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
