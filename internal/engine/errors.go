package engine

import (
	"errors"
	"fmt"
)

// EngineError is an error from the facade itself. Errors from the dex, rules
// and learnset packages pass through unchanged.
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// Mod is the mod involved, if any.
	Mod string

	// Err is the underlying error, if any.
	Err error
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeUnknownFormat indicates a format name resolves to nothing.
	ErrCodeUnknownFormat EngineErrorCode = "UNKNOWN_FORMAT"

	// ErrCodeUnknownEntity indicates a species, move, item or ability name
	// resolves to nothing.
	ErrCodeUnknownEntity EngineErrorCode = "UNKNOWN_ENTITY"

	// ErrCodeReloadFailed indicates fresh data could not be loaded.
	ErrCodeReloadFailed EngineErrorCode = "RELOAD_FAILED"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Mod != "" {
		msg += fmt.Sprintf(" (mod=%s)", e.Mod)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineError returns true if err is an EngineError with the given code.
// Uses errors.As to handle wrapped errors.
func IsEngineError(err error, code EngineErrorCode) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}
