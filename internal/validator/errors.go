package validator

import (
	"fmt"
	"strings"
)

// FormatError formats a ValidationError into a human-readable error message.
func FormatError(err ValidationError) string {
	if err.Kind == KindReferential {
		// Format: "{path}: keyframes '{name}' is not defined, must be one of: {allowed}"
		if len(err.Allowed) == 0 {
			return fmt.Sprintf("%s: keyframes '%s' is not defined (no keyframes declared)", err.Path, err.Value)
		}
		return fmt.Sprintf("%s: keyframes '%s' is not defined, must be one of: %s",
			err.Path, err.Value, strings.Join(err.Allowed, ", "))
	}

	if err.Value != "" {
		// Format: "{path}: '{value}' is not valid: {message}"
		return fmt.Sprintf("%s: '%s' is not valid: %s", err.Path, err.Value, err.Message)
	}

	return fmt.Sprintf("%s: %s", err.Path, err.Message)
}

// FormatErrors formats all validation errors into a slice of human-readable messages.
func FormatErrors(result ValidationResult) []string {
	messages := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		messages[i] = FormatError(err)
	}
	return messages
}

// FormatCI formats a validation error as a GitHub Actions annotation
// pointing at the given theme file.
func FormatCI(err ValidationError, file string) string {
	return fmt.Sprintf("::error file=%s::%s", file, FormatError(err))
}
