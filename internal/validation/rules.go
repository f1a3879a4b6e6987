// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	apperrors "github.com/allisson/cryptfields/internal/errors"
)

// Page size limits shared by every paginated operation.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Algorithm validates that a string names a supported algorithm.
var Algorithm = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, valid := range cryptoDomain.ValidAlgorithms() {
			if s == valid {
				return true
			}
		}
		return false
	},
	validation.NewError(
		"validation_algorithm",
		"must be one of "+strings.Join(cryptoDomain.ValidAlgorithms(), ", "),
	),
)

// ModeFor validates that a string is a mode accepted by alg.
func ModeFor(alg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_mode_type", "must be a string")
		}
		if s == "" {
			return nil // Let Required handle empty strings
		}
		if err := cryptoDomain.ValidateAlgorithmMode(cryptoDomain.Algorithm(alg), cryptoDomain.Mode(s)); err != nil {
			return validation.NewError("validation_mode", "is not valid for algorithm "+alg)
		}
		return nil
	})
}

// Page validates offset and limit of a paginated request.
func Page(offset, limit int) error {
	err := validation.Errors{
		"offset": validation.Validate(offset, validation.Min(0)),
		"limit":  validation.Validate(limit, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
	}.Filter()
	return WrapValidationError(err)
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
