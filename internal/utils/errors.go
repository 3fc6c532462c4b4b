package utils

import "fmt"

// WrapReadError wraps an error with a "failed to read" message
func WrapReadError(item string, err error) error {
	return fmt.Errorf("failed to read %s: %w", item, err)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, err error) error {
	return fmt.Errorf("failed to parse %s: %w", item, err)
}

// WrapRemoveError wraps an error with a "failed to remove" message
func WrapRemoveError(item string, err error) error {
	return fmt.Errorf("failed to remove %s: %w", item, err)
}

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}
