package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"corkboard/internal/config"
	"corkboard/internal/model"
)

func testAuthConfig(secret string, maxAge int) *config.Config {
	return &config.Config{
		JWTSecret:         secret,
		AccessTokenMaxAge: maxAge,
	}
}

// =============================================================================
// TOKEN ROUND-TRIP
// =============================================================================

func TestAuthService_IssueAndVerify(t *testing.T) {
	svc := NewAuthService(testAuthConfig("test-secret", 3600))

	token, err := svc.IssueToken(42, "alice")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("user_id = %d, want 42", userID)
	}
}

// =============================================================================
// VERIFY FAILURES
// =============================================================================
//
// Every way a token can be bad collapses to the same sentinel, so the
// middleware never has to care why verification failed.

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	svc := NewAuthService(testAuthConfig("test-secret", 3600))

	// A token signed by a service holding a different secret
	otherSvc := NewAuthService(testAuthConfig("other-secret", 3600))
	wrongSecretToken, err := otherSvc.IssueToken(42, "alice")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// A token that was valid once but is past its expiration
	expiredSvc := NewAuthService(testAuthConfig("test-secret", -3600))
	expiredToken, err := expiredSvc.IssueToken(42, "alice")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// A token with a valid signature but no user_id claim
	noUserIDToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// A token declaring alg=none must be rejected outright
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": float64(42),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not.a.token"},
		{name: "wrong secret", token: wrongSecretToken},
		{name: "expired token", token: expiredToken},
		{name: "missing user_id claim", token: noUserIDToken},
		{name: "alg none", token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := svc.VerifyToken(tt.token)

			if !errors.Is(err, model.ErrInvalidToken) {
				t.Errorf("error = %v, want %v", err, model.ErrInvalidToken)
			}
			if userID != 0 {
				t.Errorf("user_id = %d, want 0", userID)
			}
		})
	}
}

// =============================================================================
// TOKEN CLAIMS
// =============================================================================

func TestAuthService_IssueToken_Claims(t *testing.T) {
	svc := NewAuthService(testAuthConfig("test-secret", 3600))

	tokenString, err := svc.IssueToken(7, "bob")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}

	if got, _ := claims["username"].(string); got != "bob" {
		t.Errorf("username claim = %q, want %q", got, "bob")
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected exp claim to be set")
	}
	if _, ok := claims["iat"]; !ok {
		t.Error("expected iat claim to be set")
	}
}
