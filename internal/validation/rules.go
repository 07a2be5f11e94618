// Package validation holds the client-side field checks run before any
// request reaches the backend.
package validation

import "regexp"

const (
	MsgInvalidEmail   = "Invalid email format"
	MsgWeakPassword   = "Min 8 chars, 1 upper, 1 lower, 1 digit, 1 special"
	MsgRequiredField  = "This field is required"
	PasswordMinLength = 8
	// PasswordSpecials is the accepted special-character set.
	PasswordSpecials = "@$!%?&"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// RE2 has no look-ahead, so each password clause is its own pattern.
	// passwordLength also rejects line breaks, which `.` never matches.
	passwordLength  = regexp.MustCompile(`^.{8,}$`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[@$!%?&]`)
)

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsStrongPassword reports whether s is at least 8 characters long and has a
// lower-case letter, an upper-case letter, a digit and one of @$!%?&.
func IsStrongPassword(s string) bool {
	return passwordLength.MatchString(s) &&
		passwordLower.MatchString(s) &&
		passwordUpper.MatchString(s) &&
		passwordDigit.MatchString(s) &&
		passwordSpecial.MatchString(s)
}

// FieldMessage returns the error message for a field value, or "" when the
// field passes or has no rule.
func FieldMessage(field, value string) string {
	switch field {
	case "email":
		if !IsEmail(value) {
			return MsgInvalidEmail
		}
	case "password", "passwordHash":
		if !IsStrongPassword(value) {
			return MsgWeakPassword
		}
	}
	return ""
}
