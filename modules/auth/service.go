package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/example/task-manager-api/modules/events"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidName is returned when the name is empty or too long.
	ErrInvalidName = errors.New("name must be between 1 and 255 characters")
	// ErrInvalidAge is returned when the age is negative.
	ErrInvalidAge = errors.New("age must be a non-negative number")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("password must be at least 7 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrPasswordForbidden is returned when the password contains the word "password".
	ErrPasswordForbidden = errors.New(`password cannot contain "password"`)
	// ErrSessionRevoked is returned when a well-signed token is no longer held
	// by its user.
	ErrSessionRevoked = errors.New("session has been revoked")
)

// AccountService handles signup, login, sessions and profile management.
type AccountService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
	bus    *events.Bus
}

// NewAccountService creates a new AccountService. The event bus may be nil;
// mutations then simply publish nothing.
func NewAccountService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager, bus *events.Bus) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
		bus:    bus,
	}
}

// normalizeEmail trims and lowercases an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if name == "" || len(name) > 255 {
		return ErrInvalidName
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 7 {
		return ErrWeakPassword
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordForbidden
	}
	return nil
}

// Signup creates a new user account, issues a first session token and
// publishes an account created event after the commit.
func (s *AccountService) Signup(ctx context.Context, name, email, password string, age int) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}
	if age < 0 {
		return nil, "", ErrInvalidAge
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Age:          age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	if s.bus != nil {
		s.bus.PublishAccountCreated(ctx, user.Name, user.Email)
	}

	return user, token, nil
}

// Login authenticates a user and appends exactly one new session token.
func (s *AccountService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ValidateSession verifies a bearer token, loads its user and requires the
// exact token string to still be in the user's session list.
func (s *AccountService) ValidateSession(_ context.Context, token string) (*domain.Session, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	held, err := s.repo.TokenHeld(user.ID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check session token: %w", err)
	}
	if !held {
		return nil, ErrSessionRevoked
	}

	return &domain.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		Token:     token,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// Logout removes the presented session token only; other sessions stay live.
func (s *AccountService) Logout(_ context.Context, userID, token string) error {
	return s.repo.RemoveToken(userID, token)
}

// LogoutAll clears every session token the user holds.
func (s *AccountService) LogoutAll(_ context.Context, userID string) error {
	return s.repo.ClearTokens(userID)
}

// GetUser retrieves a user by ID.
func (s *AccountService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// ProfileUpdate carries the whitelisted profile fields; nil means unchanged.
// Unknown field names are rejected before this point, at the API boundary.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UpdateUser applies a whitelisted profile update. A password change
// re-hashes; it does not clear the session list.
func (s *AccountService) UpdateUser(_ context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			exists, err := s.repo.EmailExists(email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email existence: %w", err)
			}
			if exists {
				return nil, ErrUserExists
			}
		}
		user.Email = email
	}
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if update.Age != nil {
		if *update.Age < 0 {
			return nil, ErrInvalidAge
		}
		user.Age = *update.Age
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the account and its sessions and publishes an account
// deleted event. Task cascade happens at the API layer before this call.
func (s *AccountService) DeleteUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(userID); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.PublishAccountDeleted(ctx, user.Name, user.Email)
	}

	return user, nil
}

// SetAvatar validates and stores the avatar bytes on the user record.
func (s *AccountService) SetAvatar(_ context.Context, userID, filename string, data []byte) error {
	if err := ValidateAvatar(filename, data); err != nil {
		return err
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}

	user.Avatar = data
	user.UpdatedAt = time.Now()
	return s.repo.Save(user)
}

// ClearAvatar removes the stored avatar bytes.
func (s *AccountService) ClearAvatar(_ context.Context, userID string) error {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}

	user.Avatar = nil
	user.UpdatedAt = time.Now()
	return s.repo.Save(user)
}

// GetAvatar returns the avatar bytes for any user id. A user without an
// avatar is reported as not found, same as a missing user.
func (s *AccountService) GetAvatar(_ context.Context, userID string) ([]byte, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, ErrUserNotFound
	}
	return user.Avatar, nil
}

func (s *AccountService) issueToken(userID string) (string, error) {
	token, err := s.jwt.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.repo.AppendToken(userID, token); err != nil {
		return "", err
	}
	return token, nil
}
