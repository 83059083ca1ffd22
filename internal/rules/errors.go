package rules

import (
	"errors"
	"fmt"
)

// RuleError represents a fatal error compiling a format's rules.
//
// Every RuleError aborts the compilation that raised it; a RuleTable is
// never returned alongside one.
type RuleError struct {
	// Code identifies the error category.
	Code RuleErrorCode

	// Format is the name of the format being compiled, if any.
	Format string

	// Rule is the offending rule text, if any.
	Rule string

	// Message is a human-readable description.
	Message string
}

// RuleErrorCode categorizes rule compilation errors.
type RuleErrorCode string

const (
	// ErrCodeUnrecognizedRule indicates a bare or "!" rule that names no format.
	ErrCodeUnrecognizedRule RuleErrorCode = "UNRECOGNIZED_RULE"

	// ErrCodeConfusingRule indicates a one-member complex ban without a limit.
	ErrCodeConfusingRule RuleErrorCode = "CONFUSING_RULE"

	// ErrCodeNothingMatches indicates a ban target that matches no entry.
	ErrCodeNothingMatches RuleErrorCode = "NOTHING_MATCHES"

	// ErrCodeAmbiguousMatch indicates a ban target matching entries in more
	// than one category.
	ErrCodeAmbiguousMatch RuleErrorCode = "AMBIGUOUS_MATCH"

	// ErrCodeExcessiveRecursion indicates a ruleset nested past the depth bound
	// or referencing itself.
	ErrCodeExcessiveRecursion RuleErrorCode = "EXCESSIVE_RECURSION"

	// ErrCodeHookConflict indicates two sub-formats both declare a learnset hook.
	ErrCodeHookConflict RuleErrorCode = "HOOK_CONFLICT"

	// ErrCodeTeamBans indicates a ban in a format with generated teams.
	ErrCodeTeamBans RuleErrorCode = "TEAM_BANS"

	// ErrCodeUnrecognizedFormat indicates ValidateFormat could not find the base format.
	ErrCodeUnrecognizedFormat RuleErrorCode = "UNRECOGNIZED_FORMAT"

	// ErrCodeRedundantCustomRules indicates every custom rule is already in effect.
	ErrCodeRedundantCustomRules RuleErrorCode = "REDUNDANT_CUSTOM_RULES"
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Format, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuleError returns true if err is a RuleError with the given code.
// Uses errors.As to handle wrapped errors.
func IsRuleError(err error, code RuleErrorCode) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
