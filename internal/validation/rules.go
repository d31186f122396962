// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/gw2proxy/internal/errors"
)

// MaxCredentialLength bounds the size of a stored API key.
const MaxCredentialLength = 512

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoControlChars rejects control characters. A credential is sent as an HTTP header
// value, where CR, LF and NUL are not allowed.
var NoControlChars = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.IndexFunc(s, unicode.IsControl) < 0
	},
	validation.NewError("validation_no_control_chars", "must not contain control characters"),
)

// CredentialRules are the rules applied to an API key before it is stored.
var CredentialRules = []validation.Rule{
	validation.Required,
	NotBlank,
	NoControlChars,
	validation.Length(1, MaxCredentialLength),
}

// ValidateCredential checks an API key against CredentialRules and wraps failures
// as ErrInvalidInput.
func ValidateCredential(key string) error {
	return WrapValidationError(validation.Validate(key, CredentialRules...))
}
