package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	token, err := manager.Generate("gateway-1")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.GatewayID != "gateway-1" {
		t.Errorf("expected gateway-1, got %s", claims.GatewayID)
	}
}

func TestJWTRejectsBadTokens(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		if _, err := manager.Validate("not.a.jwt"); err == nil {
			t.Error("expected error for malformed token")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("different-secret", time.Hour)
		token, err := other.Generate("gateway-1")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if _, err := manager.Validate(token); err == nil {
			t.Error("expected error for token signed with another secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("secret", -time.Minute)
		token, err := expired.Generate("gateway-1")
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		if _, err := manager.Validate(token); err == nil {
			t.Error("expected error for expired token")
		}
	})
}
