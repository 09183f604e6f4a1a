package handlers

import (
	"strings"
	"testing"
)

func TestValidatePasswordAcceptsStrongPassword(t *testing.T) {
	valid := []string{
		"Sunset!!99Drive",
		"Tr4vel&&Mug2026",
		"k9!K9?longEnough",
	}
	for _, password := range valid {
		if unmet := validatePassword(password); len(unmet) != 0 {
			t.Fatalf("expected %q to pass, got unmet rules: %v", password, unmet)
		}
	}
}

func TestValidatePasswordShortAlwaysReportsLength(t *testing.T) {
	for _, password := range []string{"", "a", "Ab1!Ab1!Ab1"} {
		unmet := validatePassword(password)
		found := false
		for _, msg := range unmet {
			if msg == "at least 12 characters" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected length rule for %q, got %v", password, unmet)
		}
	}
}

func TestValidatePasswordMissingCharacterClasses(t *testing.T) {
	tests := []struct {
		password string
		expect   string
	}{
		{"lowercase!!11only", "one uppercase letter"},
		{"UPPERCASE!!11ONLY", "one lowercase letter"},
		{"NoNumbersHere!!ok", "one number"},
		{"NoSpecials11here", "one special character"},
		{"OnlyOne1Digit!!ab", "at least 2 numbers"},
		{"OnlyOne!Special11a", "at least 2 special characters"},
	}
	for _, tt := range tests {
		unmet := validatePassword(tt.password)
		found := false
		for _, msg := range unmet {
			if msg == tt.expect {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %q among unmet rules for %q, got %v", tt.expect, tt.password, unmet)
		}
	}
}

func TestValidatePasswordRejectsTripleRepeat(t *testing.T) {
	unmet := validatePassword("Goood!!Pass11word")
	found := false
	for _, msg := range unmet {
		if msg == "no more than 2 repeated characters in a row" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected repeat rule, got %v", unmet)
	}

	if unmet := validatePassword("Good!!Pass11word"); len(unmet) != 0 {
		t.Fatalf("double repeat should be allowed, got %v", unmet)
	}
}

func TestValidatePasswordRejectsCommonPrefixes(t *testing.T) {
	for _, password := range []string{"Password!!11abcd", "QWERTY!!11abcdef", "LetMeIn!!11abcde"} {
		unmet := validatePassword(password)
		found := false
		for _, msg := range unmet {
			if msg == "no common passwords" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected common-password rule for %q, got %v", password, unmet)
		}
	}
}

func TestValidatePasswordOrderIsStable(t *testing.T) {
	unmet := validatePassword("ab")
	if len(unmet) < 2 || unmet[0] != "at least 12 characters" {
		t.Fatalf("expected length rule first, got %v", unmet)
	}
}

func TestPasswordPolicyErrorJoinsMessages(t *testing.T) {
	msg := passwordPolicyError([]string{"one number", "at least 2 numbers"})
	if !strings.HasPrefix(msg, "Password must contain: ") {
		t.Fatalf("unexpected prefix: %q", msg)
	}
	if !strings.Contains(msg, "one number, at least 2 numbers") {
		t.Fatalf("expected joined messages, got %q", msg)
	}
}
