package auth

import (
	"testing"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	config := JWTConfig{
		SecretKey: "test-secret-key",
		Issuer:    "test-issuer",
	}
	manager := NewJWTManager(config)

	userID := "user-123"

	token, err := manager.Generate(userID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if token == "" {
		t.Error("Generate() returned empty token")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Subject != userID {
		t.Errorf("claims.Subject = %v, want %v", claims.Subject, userID)
	}
	if claims.Issuer != config.Issuer {
		t.Errorf("claims.Issuer = %v, want %v", claims.Issuer, config.Issuer)
	}
}

func TestJWTManager_NoExpiry(t *testing.T) {
	manager := NewJWTManager(DefaultJWTConfig())

	token, err := manager.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// Session lifetime is controlled by the token list, not the clock.
	if claims.ExpiresAt != nil {
		t.Errorf("claims.ExpiresAt = %v, want nil", claims.ExpiresAt)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := NewJWTManager(DefaultJWTConfig())

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "random string",
			token: "not.a.valid.token",
		},
		{
			name:  "malformed jwt",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Validate(tt.token)
			if err == nil {
				t.Error("Validate() should return error for invalid token")
			}
			if err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTManager_WrongSecretKey(t *testing.T) {
	manager1 := NewJWTManager(JWTConfig{SecretKey: "secret-key-1", Issuer: "test"})
	manager2 := NewJWTManager(JWTConfig{SecretKey: "secret-key-2", Issuer: "test"})

	token, err := manager1.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = manager2.Validate(token)
	if err == nil {
		t.Error("Validate() should fail with different secret key")
	}
}
