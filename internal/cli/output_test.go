package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/engine"
	"github.com/DatSpookTho/Lanette/internal/learnset"
	"github.com/DatSpookTho/Lanette/internal/paramsearch"
	"github.com/DatSpookTho/Lanette/internal/rules"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"canonical": "gen7ou@@@+Uber"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("NOTHING_MATCHES", "nothing matches \"Missingno\"", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "NOTHING_MATCHES", resp.Error.Code)
	assert.Equal(t, "nothing matches \"Missingno\"", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "formats.cue", "line": "42"}
	err := formatter.Error("INVALID_FORMAT_LIST", "syntax error", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(ValidateFormatResult{Input: "gen7ou@@@+uber", Canonical: "gen7ou@@@+Uber"})
	require.NoError(t, err)
	assert.Equal(t, "gen7ou@@@+Uber\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("UNKNOWN_FORMAT", "no format \"gen7nothing\"", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNKNOWN_FORMAT]")
	assert.Contains(t, buf.String(), "gen7nothing")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"format": "gen7selfcycle"}
	err := formatter.Error("EXCESSIVE_RECURSION", "ruleset nests too deep", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [EXCESSIVE_RECURSION]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Loading data from %s", "data")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Loading data from data")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "UNKNOWN_PARAM_TYPE",
		Message: "param type \"shape\"",
		Details: []string{"shape"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN_PARAM_TYPE", decoded.Code)
	assert.Equal(t, "param type \"shape\"", decoded.Message)
}

func TestOutputFormatter_SuccessWithRequest(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.SuccessWithRequest(map[string]int{"count": 1}, "req-1"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestOutputFormatter_VerboseLogToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("Compiled %s", "gen7ou")
	assert.Empty(t, out.String())
	assert.Equal(t, "Compiled gen7ou\n", errOut.String())
}

// =============================================================================
// Exit Code Tests
// =============================================================================

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "ILLEGAL_SET", errors.New("inner")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: ILLEGAL_SET: inner", wrapped.Error())
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rule", &rules.RuleError{Code: rules.ErrCodeNothingMatches}, "NOTHING_MATCHES"},
		{"engine", &engine.EngineError{Code: engine.ErrCodeUnknownFormat}, "UNKNOWN_FORMAT"},
		{"mod", fmt.Errorf("load: %w", &dex.ModError{Code: dex.ErrCodeUnknownMod}), "UNKNOWN_MOD"},
		{"check", &learnset.CheckError{Code: learnset.ErrCodeUnknownHook}, "UNKNOWN_HOOK"},
		{"request", &paramsearch.RequestError{Code: paramsearch.ErrCodeBadParamCount}, "BAD_PARAM_COUNT"},
		{"plain", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err, ""))
		})
	}
	assert.Equal(t, ErrCodeBadFlag, errorCode(errors.New("boom"), ErrCodeBadFlag))
}

func TestFail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := fail(formatter, ExitFailure, "", &rules.RuleError{Code: rules.ErrCodeRedundantCustomRules, Message: "already in format"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [REDUNDANT_CUSTOM_RULES]")
}
