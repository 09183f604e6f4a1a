package handlers

import (
	"regexp"
	"strings"
)

// Password policy shared by register, reset-password and change-password.
// Keeping a single rule set is deliberate: the rules must never drift between
// the three entry points.

var (
	upperRe   = regexp.MustCompile("[A-Z]")
	lowerRe   = regexp.MustCompile("[a-z]")
	digitRe   = regexp.MustCompile("[0-9]")
	specialRe = regexp.MustCompile("[!@#$%^&*(),.?\":{}|<>_\\-+=\\[\\]\\\\;'`~]")
	commonRe  = regexp.MustCompile(`(?i)^(password|123456|qwerty|admin|letmein|welcome)`)
)

// validatePassword returns the ordered list of unmet requirements; an empty
// list means the password is acceptable. The caller joins the messages into
// one "Password must contain: ..." error.
func validatePassword(password string) []string {
	var unmet []string

	if len([]rune(password)) < 12 {
		unmet = append(unmet, "at least 12 characters")
	}
	if !upperRe.MatchString(password) {
		unmet = append(unmet, "one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		unmet = append(unmet, "one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		unmet = append(unmet, "one number")
	}
	if !specialRe.MatchString(password) {
		unmet = append(unmet, "one special character")
	}
	if len(digitRe.FindAllString(password, -1)) < 2 {
		unmet = append(unmet, "at least 2 numbers")
	}
	if len(specialRe.FindAllString(password, -1)) < 2 {
		unmet = append(unmet, "at least 2 special characters")
	}
	if hasTripleRepeat(password) {
		unmet = append(unmet, "no more than 2 repeated characters in a row")
	}
	if commonRe.MatchString(password) {
		unmet = append(unmet, "no common passwords")
	}

	return unmet
}

// hasTripleRepeat reports a run of three or more identical consecutive
// characters. RE2 has no backreferences, so this rule is a plain scan.
func hasTripleRepeat(password string) bool {
	runes := []rune(password)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func passwordPolicyError(unmet []string) string {
	return "Password must contain: " + strings.Join(unmet, ", ")
}
