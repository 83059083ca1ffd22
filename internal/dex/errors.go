package dex

import (
	"errors"
	"fmt"
)

// ModError represents a fatal error resolving a mod's data table.
//
// Mod errors include:
//   - Unknown parent: scripts.yaml names a mod that does not exist
//   - Self parent: a mod inherits from itself, directly or through a cycle
//   - Missing prevo: a species' prevolution is not in the resolved table
//   - Load failed: a data file could not be read or decoded
type ModError struct {
	// Code identifies the error category.
	Code ModErrorCode

	// Mod is the mod being resolved.
	Mod string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// ModErrorCode categorizes mod resolution errors.
type ModErrorCode string

const (
	// ErrCodeUnknownMod indicates a lookup for a mod that was never discovered.
	ErrCodeUnknownMod ModErrorCode = "UNKNOWN_MOD"

	// ErrCodeUnknownParent indicates the declared parent mod does not exist.
	ErrCodeUnknownParent ModErrorCode = "UNKNOWN_PARENT"

	// ErrCodeSelfParent indicates a mod inherits from itself.
	ErrCodeSelfParent ModErrorCode = "SELF_PARENT"

	// ErrCodeMissingPrevo indicates a species' prevo is not in the table.
	ErrCodeMissingPrevo ModErrorCode = "MISSING_PREVO"

	// ErrCodeLoadFailed indicates the mod's files could not be loaded.
	ErrCodeLoadFailed ModErrorCode = "LOAD_FAILED"
)

// Error implements the error interface.
func (e *ModError) Error() string {
	msg := fmt.Sprintf("%s: mod %q: %s", e.Code, e.Mod, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ModError) Unwrap() error {
	return e.Err
}

// IsModError returns true if err is a ModError with the given code.
// Uses errors.As to handle wrapped errors.
func IsModError(err error, code ModErrorCode) bool {
	var me *ModError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
