package learnset

import (
	"errors"
	"fmt"
)

// CheckError is a fatal error checking a learnset: bad caller input or
// inconsistent data, never an illegal move.
type CheckError struct {
	Code    CheckErrorCode
	Message string
	Err     error
}

// CheckErrorCode categorizes learnset check errors.
type CheckErrorCode string

const (
	// ErrCodeUnknownHook indicates a rule table names a hook nobody registered.
	ErrCodeUnknownHook CheckErrorCode = "UNKNOWN_HOOK"

	// ErrCodeMissingSpecies indicates a prevo, base forme or evo is not in the dex.
	ErrCodeMissingSpecies CheckErrorCode = "MISSING_SPECIES"

	// ErrCodeUnknownAbility indicates the declared ability does not exist.
	ErrCodeUnknownAbility CheckErrorCode = "UNKNOWN_ABILITY"

	// ErrCodeMissingRuleTable indicates Settings carried no rule table.
	ErrCodeMissingRuleTable CheckErrorCode = "MISSING_RULE_TABLE"
)

func (e *CheckError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// IsCheckError returns true if err is a CheckError with the given code.
func IsCheckError(err error, code CheckErrorCode) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
