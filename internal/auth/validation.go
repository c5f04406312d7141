package auth

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/moneytrack-io/moneytrack/internal/respond"
)

// NormalizeEmail lowercases and trims an email address so uniqueness checks
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email parses as an address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidPassword enforces the password policy: at least 6 characters with at
// least one lowercase letter, one uppercase letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// ValidateRegistration checks a registration payload and returns one entry
// per failing field.
func ValidateRegistration(name, firstname, email, password string) []respond.FieldError {
	var errs []respond.FieldError
	if len(strings.TrimSpace(name)) < 2 {
		errs = append(errs, respond.FieldError{Field: "name", Message: "Name must be at least 2 characters long"})
	}
	if len(strings.TrimSpace(firstname)) < 2 {
		errs = append(errs, respond.FieldError{Field: "firstname", Message: "First name must be at least 2 characters long"})
	}
	if !ValidEmail(NormalizeEmail(email)) {
		errs = append(errs, respond.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if !ValidPassword(password) {
		errs = append(errs, respond.FieldError{Field: "password", Message: "Password must be at least 6 characters long and contain at least one lowercase letter, one uppercase letter, and one number"})
	}
	return errs
}

// ValidateLogin checks a login payload.
func ValidateLogin(email, password string) []respond.FieldError {
	var errs []respond.FieldError
	if !ValidEmail(NormalizeEmail(email)) {
		errs = append(errs, respond.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if password == "" {
		errs = append(errs, respond.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}
