// Package config handles settings loading and validation for batchren.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrValidation marks every failure reported by ValidateOptions.
var ErrValidation = errors.New("validation failed")

// Fields checked by the validator.
const (
	FieldDirectory   = "directory"
	FieldReplacement = "replacement"
	FieldPrefix      = "prefix"
	FieldSuffix      = "suffix"
	FieldMaxFiles    = "max-files"
)

// ReservedChars are rejected in replacement, prefix and suffix.
// They are reserved on at least one common filesystem.
const ReservedChars = "/\\:*?\"<>|\x00"

// ValidationError represents a single failed check.
type ValidationError struct {
	Field   string // Setting that failed (e.g., "prefix")
	Message string // Human-readable description
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateOptions runs the directory, replacement, prefix, suffix and
// file limit checks in that order and returns the first failure, or nil.
func ValidateOptions(opts Options) error {
	if err := ValidateDirectory(opts.Directory); err != nil {
		return err
	}
	if err := ValidateReplacement(opts.Rules.Replacement); err != nil {
		return err
	}
	if err := ValidatePrefix(opts.Rules.Prefix); err != nil {
		return err
	}
	if err := ValidateSuffix(opts.Rules.Suffix); err != nil {
		return err
	}
	if err := ValidateMaxFiles(opts.MaxFiles); err != nil {
		return err
	}
	return nil
}

// ValidateDirectory checks that path exists and is a directory.
func ValidateDirectory(path string) *ValidationError {
	if path == "" {
		return &ValidationError{Field: FieldDirectory, Message: "No directory path provided."}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Field: FieldDirectory, Message: "Path does not exist: " + path}
		}
		if os.IsPermission(err) {
			return &ValidationError{Field: FieldDirectory, Message: "Path is not accessible: " + path}
		}
		return &ValidationError{Field: FieldDirectory, Message: "Error accessing path: " + err.Error()}
	}

	if !info.IsDir() {
		return &ValidationError{Field: FieldDirectory, Message: "Path is not a directory: " + path}
	}

	return nil
}

// ValidateReplacement checks the replacement token. Empty is allowed.
func ValidateReplacement(replacement string) *ValidationError {
	if c, ok := firstReserved(replacement); ok {
		return &ValidationError{
			Field:   FieldReplacement,
			Message: fmt.Sprintf("Invalid character in replacement: '%s'", displayChar(c)),
		}
	}
	if utf8.RuneCountInString(replacement) > MaxReplacementLength {
		return &ValidationError{
			Field:   FieldReplacement,
			Message: fmt.Sprintf("Replacement string too long (max %d characters)", MaxReplacementLength),
		}
	}
	return nil
}

// ValidatePrefix checks the prefix. Empty is allowed.
func ValidatePrefix(prefix string) *ValidationError {
	return validateAffix(prefix, FieldPrefix)
}

// ValidateSuffix checks the suffix. Empty is allowed.
func ValidateSuffix(suffix string) *ValidationError {
	return validateAffix(suffix, FieldSuffix)
}

func validateAffix(value, field string) *ValidationError {
	if value == "" {
		return nil
	}
	if c, ok := firstReserved(value); ok {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Invalid character in %s: '%s'", field, displayChar(c)),
		}
	}
	if utf8.RuneCountInString(value) > MaxAffixLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s too long (max %d characters)", capitalize(field), MaxAffixLength),
		}
	}
	return nil
}

// ValidateMaxFiles checks that the scan limit is positive.
func ValidateMaxFiles(n int) *ValidationError {
	if n <= 0 {
		return &ValidationError{
			Field:   FieldMaxFiles,
			Message: fmt.Sprintf("Max files must be a positive number (got %d)", n),
		}
	}
	return nil
}

// firstReserved returns the first reserved character in s.
func firstReserved(s string) (rune, bool) {
	for _, c := range s {
		if strings.ContainsRune(ReservedChars, c) {
			return c, true
		}
	}
	return 0, false
}

func displayChar(c rune) string {
	if c == 0 {
		return `\0`
	}
	return string(c)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
