package auth

import (
	"time"

	domain "github.com/example/task-manager-api/domain/user"
)

// UserPayload is the serializable user shape. It never carries the password
// hash, the avatar bytes or the session list.
type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserPayload converts a User entity to its serializable shape.
func ToUserPayload(u *domain.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age,omitempty"`
}

// SignupResponse represents a signup response.
type SignupResponse struct {
	User  UserPayload `json:"user"`
	Token string      `json:"token"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response.
type LoginResponse struct {
	User  UserPayload `json:"user"`
	Token string      `json:"token"`
}

// ValidateSessionRequest represents a session validation request.
type ValidateSessionRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse represents a session validation response.
type ValidateSessionResponse struct {
	Valid  bool        `json:"valid"`
	UserID string      `json:"user_id,omitempty"`
	User   UserPayload `json:"user,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// LogoutRequest represents a logout request for one session.
type LogoutRequest struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// LogoutAllRequest represents a logout request for every session.
type LogoutAllRequest struct {
	UserID string `json:"user_id"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User UserPayload `json:"user"`
}

// UpdateUserRequest represents a whitelisted profile update. Whitelist
// enforcement on raw field names happens at the API boundary; this shape
// carries only the fields that may change.
type UpdateUserRequest struct {
	UserID   string  `json:"user_id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

// UpdateUserResponse represents an update user response.
type UpdateUserResponse struct {
	User UserPayload `json:"user"`
}

// DeleteUserRequest represents an account deletion request.
type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// DeleteUserResponse carries the deleted user back to the caller.
type DeleteUserResponse struct {
	User UserPayload `json:"user"`
}

// SetAvatarRequest represents an avatar upload.
type SetAvatarRequest struct {
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// SetAvatarResponse represents an avatar upload response.
type SetAvatarResponse struct {
	Stored bool `json:"stored"`
}

// DeleteAvatarRequest represents an avatar removal request.
type DeleteAvatarRequest struct {
	UserID string `json:"user_id"`
}

// DeleteAvatarResponse represents an avatar removal response.
type DeleteAvatarResponse struct {
	Deleted bool `json:"deleted"`
}

// GetAvatarRequest represents an avatar fetch; this route is public and is
// keyed by the target user id, not the authenticated identity.
type GetAvatarRequest struct {
	UserID string `json:"user_id"`
}

// GetAvatarResponse carries the raw image bytes.
type GetAvatarResponse struct {
	Data []byte `json:"data"`
}
