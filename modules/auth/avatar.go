package auth

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	// MaxAvatarSize is the upload size ceiling in bytes.
	MaxAvatarSize = 1_000_000
)

var (
	// ErrAvatarTooLarge is returned when the upload exceeds MaxAvatarSize.
	ErrAvatarTooLarge = errors.New("avatar must be at most 1MB")
	// ErrAvatarBadType is returned when the file is not a supported image.
	ErrAvatarBadType = errors.New("avatar must be a jpg, jpeg or png image")
	// ErrAvatarEmpty is returned when no file content was uploaded.
	ErrAvatarEmpty = errors.New("avatar file is required")
)

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateAvatar rejects oversized or non-image uploads before any store
// write happens.
func ValidateAvatar(filename string, data []byte) error {
	if len(data) == 0 {
		return ErrAvatarEmpty
	}
	if len(data) > MaxAvatarSize {
		return ErrAvatarTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !avatarExtensions[ext] {
		return ErrAvatarBadType
	}
	return nil
}
