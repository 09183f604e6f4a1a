package handlers

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateTwoFactorCodeIsSixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := generateTwoFactorCode()
		if err != nil {
			t.Fatalf("generateTwoFactorCode returned error: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("expected six zero-padded digits, got %q", code)
		}
	}
}

func TestGenerateResetTokenEntropy(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	first, err := generateResetToken()
	if err != nil {
		t.Fatalf("generateResetToken returned error: %v", err)
	}
	if !pattern.MatchString(first) {
		t.Fatalf("expected 64 hex chars, got %q", first)
	}

	second, err := generateResetToken()
	if err != nil {
		t.Fatalf("generateResetToken returned error: %v", err)
	}
	if first == second {
		t.Fatal("two tokens in a row should never collide")
	}
}

func TestBuildResetURL(t *testing.T) {
	url := buildResetURL("https://tavero.com/", "abc123")
	if url != "https://tavero.com/reset-password?token=abc123" {
		t.Fatalf("unexpected reset url: %s", url)
	}

	url = buildResetURL("https://tavero.com", "a b")
	if url != "https://tavero.com/reset-password?token=a+b" {
		t.Fatalf("expected escaped token, got %s", url)
	}
}

func TestIssueSessionTokenClaims(t *testing.T) {
	userID := primitive.NewObjectID()
	secret := "test-secret"

	signed, err := issueSessionToken(userID, "user@example.com", secret, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("issueSessionToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["userId"] != userID.Hex() {
		t.Fatalf("unexpected userId claim: %v", claims["userId"])
	}
	if claims["email"] != "user@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("expected exp claim")
	}
	expiry := time.Unix(int64(exp), 0)
	week := time.Now().Add(7 * 24 * time.Hour)
	if expiry.Before(week.Add(-time.Minute)) || expiry.After(week.Add(time.Minute)) {
		t.Fatalf("expected ~7 day expiry, got %v", expiry)
	}
}

func TestIssueSessionTokenRejectsWrongSecret(t *testing.T) {
	signed, err := issueSessionToken(primitive.NewObjectID(), "user@example.com", "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueSessionToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("token verified with the wrong secret")
	}
}
