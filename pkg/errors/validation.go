package errors

import (
	"strings"
	"unicode"
)

// Limits enforced on untrusted input.
const (
	MaxValveIDLength = 32
	MaxPathLength    = 4096
	MaxBudget        = 1000
)

// ValidateValveID checks that id is a non-empty word: letters, digits and
// underscores only, at most MaxValveIDLength characters.
func ValidateValveID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "valve id cannot be empty")
	}
	if len(id) > MaxValveIDLength {
		return New(ErrCodeInvalidInput, "valve id too long (max %d characters)", MaxValveIDLength)
	}
	for _, r := range id {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidInput, "valve id %q contains invalid character %q", id, r)
		}
	}
	return nil
}

// ValidateBudget checks a time budget supplied from outside the process.
// Non-positive budgets are legal for the planners (they yield zero), so only
// negative values and values above MaxBudget are rejected here.
func ValidateBudget(budget int) error {
	if budget < 0 {
		return New(ErrCodeInvalidBudget, "budget cannot be negative: %d", budget)
	}
	if budget > MaxBudget {
		return New(ErrCodeInvalidBudget, "budget too large: %d (max %d)", budget, MaxBudget)
	}
	return nil
}

// ValidatePath validates an input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of MaxPathLength characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", MaxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains control characters")
		}
	}
	return nil
}
