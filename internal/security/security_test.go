package security

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	t.Parallel()

	hash, errHash := HashPassword("secret123")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if hash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPassword(hash, "secret123") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "secret124") {
		t.Fatalf("wrong password accepted")
	}
}

func TestGenerateAPIKeyShape(t *testing.T) {
	t.Parallel()

	first, errFirst := GenerateAPIKey()
	if errFirst != nil {
		t.Fatalf("generate: %v", errFirst)
	}
	if !strings.HasPrefix(first, "mm_") {
		t.Fatalf("missing prefix: %q", first)
	}
	if len(first) != len("mm_")+64 {
		t.Fatalf("unexpected length %d: %q", len(first), first)
	}

	second, errSecond := GenerateAPIKey()
	if errSecond != nil {
		t.Fatalf("generate: %v", errSecond)
	}
	if first == second {
		t.Fatalf("two generated keys are identical")
	}
}

func TestJWTRoundtrip(t *testing.T) {
	t.Parallel()

	token, errGenerate := GenerateToken("test-secret", "user-1", "alice@example.com", time.Hour)
	if errGenerate != nil {
		t.Fatalf("generate token: %v", errGenerate)
	}

	claims, errParse := ParseToken("test-secret", token)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, errWrong := ParseToken("other-secret", token); errWrong == nil {
		t.Fatalf("token accepted with wrong secret")
	}

	expired, _ := GenerateToken("test-secret", "user-1", "alice@example.com", -time.Minute)
	if _, errExpired := ParseToken("test-secret", expired); errExpired != ErrExpiredToken {
		t.Fatalf("expired token: got %v, want ErrExpiredToken", errExpired)
	}
}
