// Package validation holds input rules shared by the services.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	MinNameLength     = 3
	MaxNameLength     = 256
	MinEmailLength    = 6
	MaxEmailLength    = 256
	MinPasswordLength = 6
	// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected
	// by the hasher.
	MaxPasswordBytes = 72
)

var emailRegex = regexp.MustCompile(
	`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)+$`,
)

// ValidateName checks the display name length in characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("name must be %d-%d characters", MinNameLength, MaxNameLength)
	}
	return nil
}

// ValidateEmail checks length and a conservative address shape.
func ValidateEmail(email string) error {
	if len(email) < MinEmailLength || len(email) > MaxEmailLength {
		return fmt.Errorf("email must be %d-%d characters", MinEmailLength, MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email must be a valid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}
