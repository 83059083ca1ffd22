package paramsearch

import (
	"errors"
	"fmt"
)

// RequestError rejects a malformed request.
type RequestError struct {
	Code      RequestErrorCode
	RequestID string
	Message   string
}

// RequestErrorCode categorizes request errors.
type RequestErrorCode string

const (
	// ErrCodeUnsupportedSearch indicates a search type other than "pokemon".
	ErrCodeUnsupportedSearch RequestErrorCode = "UNSUPPORTED_SEARCH"

	// ErrCodeBadParamCount indicates too few or too many params were asked for.
	ErrCodeBadParamCount RequestErrorCode = "BAD_PARAM_COUNT"

	// ErrCodeUnknownParamType indicates a param type outside DefaultParamTypes.
	ErrCodeUnknownParamType RequestErrorCode = "UNKNOWN_PARAM_TYPE"
)

func (e *RequestError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (request=%s)", e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRequestError returns true if err is a RequestError with the given code.
func IsRequestError(err error, code RequestErrorCode) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
