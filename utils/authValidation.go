package utils

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

var (
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
)

// ValidateSignup validates the signup form fields using ozzo-validation.
func ValidateSignup(email, fullName, password string) error {
	return validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"fullName": validation.Validate(fullName, validation.Required, validation.Length(2, 100)),
		"password": validation.Validate(password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	}.Filter()
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	return validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
