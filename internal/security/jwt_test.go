package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/reply-assistant/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	accessToken, err := manager.GenerateAccessToken("acc-123", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if accessToken == "" {
		t.Error("access token is empty")
	}

	claims, err := manager.ValidateAccessToken(accessToken)
	if err != nil {
		t.Fatalf("failed to validate access token: %v", err)
	}

	if claims.AccountID() != "acc-123" {
		t.Errorf("account ID mismatch: got %v, want %v", claims.AccountID(), "acc-123")
	}

	if claims.Email != "test@example.com" {
		t.Errorf("email mismatch: got %v, want %v", claims.Email, "test@example.com")
	}
}

func TestJWTManager_RequiresAccount(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	if _, err := manager.GenerateAccessToken("", "test@example.com"); err == nil {
		t.Error("expected error for empty account id")
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	_, err := manager.ValidateAccessToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	manager1 := security.NewJWTManager("secret-key-1-with-32-characters!", 15*time.Minute)
	manager2 := security.NewJWTManager("secret-key-2-with-32-characters!", 15*time.Minute)

	token, _ := manager1.GenerateAccessToken("acc-123", "test@example.com")

	_, err := manager2.ValidateAccessToken(token)
	if err == nil {
		t.Error("expected error when validating with wrong secret")
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", -time.Minute)

	token, err := manager.GenerateAccessToken("acc-123", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}
