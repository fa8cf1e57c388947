package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitquest/internal/logger"
)

var (
	// ErrNotFound is returned when a referenced habit, check-in or achievement does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidInput is returned when input fails boundary validation
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrPersistence is returned when a write could not be durably recorded
	ErrPersistence = stderrors.New("persistence failure")
	// ErrAlreadyUnlocked is returned when unlocking an achievement that already has an unlock time
	ErrAlreadyUnlocked = stderrors.New("achievement already unlocked")
)

// NotFound wraps ErrNotFound with the kind and id of the missing record
func NotFound(kind string, id int) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// Invalid wraps ErrInvalidInput with a description of the problem
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Persistence wraps err as ErrPersistence, keeping the underlying error in the chain
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
