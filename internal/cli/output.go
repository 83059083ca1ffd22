package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/DatSpookTho/Lanette/internal/data"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/engine"
	"github.com/DatSpookTho/Lanette/internal/learnset"
	"github.com/DatSpookTho/Lanette/internal/paramsearch"
	"github.com/DatSpookTho/Lanette/internal/rules"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Negative answer (illegal set, invalid format, formats that fail to compile)
	ExitCommandError = 2 // Command error (bad config, missing data directory, unknown names, etc.)
)

// CLI-level error codes. Typed errors from the engine packages report their
// own codes instead.
const (
	ErrCodeGeneric         = "COMMAND_ERROR"
	ErrCodeConfig          = "CONFIG_ERROR"
	ErrCodeDataDirNotFound = "DATA_DIR_NOT_FOUND"
	ErrCodeBadFlag         = "BAD_FLAG"
	ErrCodeIllegal         = "ILLEGAL_SET"
	ErrCodeCompileFailures = "COMPILE_FAILURES"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode returns the stable code of a typed engine error, or fallback.
func errorCode(err error, fallback string) string {
	var (
		ruleErr    *rules.RuleError
		engineErr  *engine.EngineError
		modErr     *dex.ModError
		loadErr    *data.LoadError
		checkErr   *learnset.CheckError
		requestErr *paramsearch.RequestError
	)
	switch {
	case errors.As(err, &ruleErr):
		return string(ruleErr.Code)
	case errors.As(err, &engineErr):
		return string(engineErr.Code)
	case errors.As(err, &modErr):
		return string(modErr.Code)
	case errors.As(err, &loadErr):
		return string(loadErr.Code)
	case errors.As(err, &checkErr):
		return string(checkErr.Code)
	case errors.As(err, &requestErr):
		return string(requestErr.Code)
	}
	if fallback == "" {
		return ErrCodeGeneric
	}
	return fallback
}

// fail reports err through the formatter and returns it with an exit code.
// An empty code is derived from err.
func fail(out *OutputFormatter, exit int, code string, err error) error {
	if code == "" {
		code = errorCode(err, "")
	}
	if outErr := out.Error(code, err.Error(), nil); outErr != nil {
		return WrapExitError(ExitCommandError, "write output", outErr)
	}
	return WrapExitError(exit, code, err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // param search correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "NOTHING_MATCHES", "UNKNOWN_ENTITY", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. Text output
// prints data with fmt, so result types implement fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	return f.success(data, "")
}

// SuccessWithRequest is Success with the request id of a param search.
func (f *OutputFormatter) SuccessWithRequest(data any, requestID string) error {
	return f.success(data, requestID)
}

func (f *OutputFormatter) success(data any, requestID string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:    "ok",
			Data:      data,
			RequestID: requestID,
		})
	}

	// Human-readable text output
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
