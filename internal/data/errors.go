package data

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// LoadErrorCode categorizes data ingestion failures.
type LoadErrorCode string

const (
	// ErrCodeMalformedFile indicates a data file exists but has the wrong shape.
	ErrCodeMalformedFile LoadErrorCode = "MALFORMED_FILE"

	// ErrCodeReadFailed indicates a data file exists but could not be read.
	ErrCodeReadFailed LoadErrorCode = "READ_FAILED"

	// ErrCodeInvalidFormatList indicates the format list could not be compiled.
	ErrCodeInvalidFormatList LoadErrorCode = "INVALID_FORMAT_LIST"
)

// LoadError is a fatal ingestion error for one file.
type LoadError struct {
	Code    LoadErrorCode
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is (or wraps) a malformed-file error.
func IsMalformed(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeMalformedFile
	}
	return false
}

func malformed(path, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    ErrCodeMalformedFile,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}
