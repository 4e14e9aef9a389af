package user

import (
	"time"
)

// User represents a user account in the system.
// The password hash and avatar bytes never appear in API payloads.
type User struct {
	ID           string         `gorm:"primaryKey;type:text"`
	Name         string         `gorm:"not null;type:text"`
	Email        string         `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string         `gorm:"not null;type:text"`
	Age          int            `gorm:"not null;default:0"`
	Avatar       []byte         `gorm:"type:blob"`
	Tokens       []SessionToken `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// SessionToken is one issued bearer token. A user holds one row per live
// session; logout removes exactly the presented token.
type SessionToken struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"index;not null;type:text"`
	Token     string `gorm:"not null;type:text"`
	CreatedAt time.Time
}

// TableName returns the table name for the SessionToken entity.
func (SessionToken) TableName() string {
	return "session_tokens"
}

// Claims represents verified bearer-token claims.
type Claims struct {
	UserID string `json:"user_id"`
}

// Session is the authenticated identity attached to a request by the auth
// middleware: a snapshot of the user plus the exact token that matched.
type Session struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
