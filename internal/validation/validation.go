// Package validation contains input validation helpers shared by handlers
// and services.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

const (
	// MinPasswordLen matches the original product rule; registration and
	// password changes both enforce it.
	MinPasswordLen = 4

	MaxHandleLen      = 30
	MaxDisplayNameLen = 50
	MaxDescriptionLen = 160
)

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
	handleRe = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return errors.New("Invalid email address")
	}
	return nil
}

// NormalizeHandle lowercases and trims a handle the way it is stored.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// ValidateHandle checks a normalized handle.
func ValidateHandle(handle string) error {
	if handle == "" {
		return errors.New("Handle is required")
	}
	if len(handle) > MaxHandleLen {
		return errors.New("Handle too long (max 30 characters)")
	}
	if !handleRe.MatchString(handle) {
		return errors.New("Handle may only contain lowercase letters, digits and underscores")
	}
	return nil
}

// ValidatePassword checks password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return errors.New("Password too short (min 4 characters)")
	}
	return nil
}

// ValidateDisplayName checks display name presence and length.
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("Display name is required")
	}
	if len(name) > MaxDisplayNameLen {
		return errors.New("Display name too long (max 50 characters)")
	}
	return nil
}

// ValidateDescription checks profile description length.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLen {
		return errors.New("Description too long (max 160 characters)")
	}
	return nil
}
