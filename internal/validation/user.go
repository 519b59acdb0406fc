// Package validation checks user-supplied registration fields.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 8
	maxPasswordLength = 128
	maxEmailLength    = 254
)

// Registration form messages shown back to the user.
var (
	ErrMissingFields     = errors.New("You must fill out all fields.")
	ErrPasswordsMismatch = errors.New("Passwords must match.")
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateRegistration checks a sign-up form: matching password confirmation first,
// then every field present, then each field's own format.
func ValidateRegistration(username, email, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordsMismatch
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingFields
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateUsername enforces 3-30 characters of letters, digits, '_' or '-',
// not starting or ending with a separator.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username may only contain letters, numbers, underscores and dashes")
	}
	if strings.ContainsAny(username[:1], "_-") || strings.ContainsAny(username[len(username)-1:], "_-") {
		return errors.New("username cannot start or end with an underscore or dash")
	}
	return nil
}

// ValidateEmail checks a bare address such as user@example.com.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email format")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") || strings.HasPrefix(domain, ".") {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidatePassword enforces length bounds only.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if n > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}
