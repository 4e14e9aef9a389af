package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/example/task-manager-api/modules/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides account and session services.
type AuthModule struct {
	db      *gorm.DB
	service *AccountService
	bus     *events.Bus
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule publishing account events to bus.
func NewModule(bus *events.Bus) *AuthModule {
	// Use environment variable for DB path, default to local file
	dbPath := os.Getenv("AUTH_DB_PATH")
	if dbPath == "" {
		dbPath = "auth.db"
	}
	return &AuthModule{
		bus:    bus,
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}, &domain.SessionToken{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(LoadJWTConfig())

	m.service = NewAccountService(repo, hasher, jwtManager, m.bus)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"signup": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "signup", json.Unmarshal, json.Marshal, m.handleSignup)
		},
		"login": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"logout": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "logout", json.Unmarshal, json.Marshal, m.handleLogout)
		},
		"logout-all": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "logout-all", json.Unmarshal, json.Marshal, m.handleLogoutAll)
		},
		"validate-session": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "validate-session", json.Unmarshal, json.Marshal, m.handleValidateSession)
		},
		"get-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
		"update-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update-user", json.Unmarshal, json.Marshal, m.handleUpdateUser)
		},
		"delete-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-user", json.Unmarshal, json.Marshal, m.handleDeleteUser)
		},
		"set-avatar": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "set-avatar", json.Unmarshal, json.Marshal, m.handleSetAvatar)
		},
		"delete-avatar": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-avatar", json.Unmarshal, json.Marshal, m.handleDeleteAvatar)
		},
		"get-avatar": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-avatar", json.Unmarshal, json.Marshal, m.handleGetAvatar)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: signup, login, logout, logout-all, validate-session, get-user, update-user, delete-user, set-avatar, delete-avatar, get-avatar")
	return nil
}

// handleSignup handles user signup.
func (m *AuthModule) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	user, token, err := m.service.Signup(ctx, req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		return SignupResponse{}, err
	}

	return SignupResponse{
		User:  ToUserPayload(user),
		Token: token,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		User:  ToUserPayload(user),
		Token: token,
	}, nil
}

// handleLogout removes the presented session token.
func (m *AuthModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.UserID, req.Token); err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{LoggedOut: true}, nil
}

// handleLogoutAll clears the user's full session list.
func (m *AuthModule) handleLogoutAll(ctx context.Context, req LogoutAllRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.LogoutAll(ctx, req.UserID); err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{LoggedOut: true}, nil
}

// handleValidateSession handles bearer-token session validation.
func (m *AuthModule) handleValidateSession(ctx context.Context, req ValidateSessionRequest, _ *mono.Msg) (ValidateSessionResponse, error) {
	session, err := m.service.ValidateSession(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrSessionRevoked) {
			errMsg = "session revoked"
		}
		return ValidateSessionResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for validation failures
	}

	return ValidateSessionResponse{
		Valid:  true,
		UserID: session.UserID,
		User: UserPayload{
			ID:        session.UserID,
			Name:      session.Name,
			Email:     session.Email,
			Age:       session.Age,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		},
	}, nil
}

// handleGetUser handles get user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: ToUserPayload(user)}, nil
}

// handleUpdateUser handles whitelisted profile updates.
func (m *AuthModule) handleUpdateUser(ctx context.Context, req UpdateUserRequest, _ *mono.Msg) (UpdateUserResponse, error) {
	user, err := m.service.UpdateUser(ctx, req.UserID, ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return UpdateUserResponse{}, err
	}
	return UpdateUserResponse{User: ToUserPayload(user)}, nil
}

// handleDeleteUser handles account deletion.
func (m *AuthModule) handleDeleteUser(ctx context.Context, req DeleteUserRequest, _ *mono.Msg) (DeleteUserResponse, error) {
	user, err := m.service.DeleteUser(ctx, req.UserID)
	if err != nil {
		return DeleteUserResponse{}, err
	}
	return DeleteUserResponse{User: ToUserPayload(user)}, nil
}

// handleSetAvatar handles avatar uploads.
func (m *AuthModule) handleSetAvatar(ctx context.Context, req SetAvatarRequest, _ *mono.Msg) (SetAvatarResponse, error) {
	if err := m.service.SetAvatar(ctx, req.UserID, req.Filename, req.Data); err != nil {
		return SetAvatarResponse{}, err
	}
	return SetAvatarResponse{Stored: true}, nil
}

// handleDeleteAvatar handles avatar removal.
func (m *AuthModule) handleDeleteAvatar(ctx context.Context, req DeleteAvatarRequest, _ *mono.Msg) (DeleteAvatarResponse, error) {
	if err := m.service.ClearAvatar(ctx, req.UserID); err != nil {
		return DeleteAvatarResponse{}, err
	}
	return DeleteAvatarResponse{Deleted: true}, nil
}

// handleGetAvatar handles public avatar reads.
func (m *AuthModule) handleGetAvatar(ctx context.Context, req GetAvatarRequest, _ *mono.Msg) (GetAvatarResponse, error) {
	data, err := m.service.GetAvatar(ctx, req.UserID)
	if err != nil {
		return GetAvatarResponse{}, err
	}
	return GetAvatarResponse{Data: data}, nil
}
