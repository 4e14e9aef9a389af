package auth

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-manager-api/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a user already exists.
	ErrUserExists = errors.New("user with this email already exists")
	// ErrTokenNotFound is returned when a session token is not held by the user.
	ErrTokenNotFound = errors.New("session token not found")
)

// UserRepository handles user and session-token persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *UserRepository) Create(user *domain.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail finds a user by normalized email.
func (r *UserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	result := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Save persists changes to an existing user row.
func (r *UserRepository) Save(user *domain.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Delete removes a user and all session tokens it holds.
func (r *UserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.SessionToken{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete session tokens: %w", err)
		}
		result := tx.Delete(&domain.User{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// AppendToken adds one issued token to the user's session list.
func (r *UserRepository) AppendToken(userID, token string) error {
	record := &domain.SessionToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to append session token: %w", err)
	}
	return nil
}

// TokenHeld reports whether the exact token string is still in the user's
// session list.
func (r *UserRepository) TokenHeld(userID, token string) (bool, error) {
	var count int64
	result := r.db.Model(&domain.SessionToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// RemoveToken removes exactly the presented token from the user's session list.
func (r *UserRepository) RemoveToken(userID, token string) error {
	result := r.db.Delete(&domain.SessionToken{}, "user_id = ? AND token = ?", userID, token)
	if result.Error != nil {
		return fmt.Errorf("failed to remove session token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// ClearTokens removes every token the user holds.
func (r *UserRepository) ClearTokens(userID string) error {
	if err := r.db.Delete(&domain.SessionToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear session tokens: %w", err)
	}
	return nil
}

// TokenCount returns the number of live sessions the user holds.
func (r *UserRepository) TokenCount(userID string) (int64, error) {
	var count int64
	result := r.db.Model(&domain.SessionToken{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
