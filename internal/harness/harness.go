package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/DatSpookTho/Lanette/internal/data"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/engine"
	"github.com/DatSpookTho/Lanette/internal/learnset"
	"github.com/DatSpookTho/Lanette/internal/rules"
)

// Target is the engine surface scenarios invoke. *engine.Engine
// implements it.
type Target interface {
	CheckSet(req engine.SetRequest) (*engine.SetCheck, error)
	RuleTable(name string) (*rules.RuleTable, *dex.Format, error)
	ValidateFormat(name string) (string, error)
	Species(name string) (*dex.Species, error)
}

// Harness runs scenarios against a Target.
type Harness struct {
	target Target
	logger *slog.Logger
	seq    int64
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the harness logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a harness for target.
func New(target Target, opts ...Option) *Harness {
	h := &Harness{
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario and returns the result.
//
// Sequence numbers restart at 1 for every run so traces are reproducible.
// A malformed step (missing or mistyped args) is an error; an operation
// that fails is an Error completion judged by the step's expect clause.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	h.seq = 0
	result := NewResult()

	for i, step := range scenario.Flow {
		result.AddInvocationTrace(step.Invoke, step.Args, h.next())

		outputCase, out, err := h.invoke(step)
		var argErr *argError
		if errors.As(err, &argErr) {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		if err != nil {
			outputCase = CaseError
			out = map[string]any{"code": errorCode(err)}
		}
		result.AddCompletionTrace(outputCase, out, h.next())

		h.checkExpect(i, step, outputCase, out, err, result)

		h.logger.Debug("flow step completed",
			"scenario", scenario.Name,
			"step", i,
			"invoke", step.Invoke,
			"output_case", outputCase,
		)
	}

	for _, msg := range h.evaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (h *Harness) next() int64 {
	h.seq++
	return h.seq
}

// checkExpect compares a completion against the step's expect clause.
func (h *Harness) checkExpect(i int, step FlowStep, outputCase string, out map[string]any, err error, result *Result) {
	if step.Expect == nil {
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Invoke, err))
		}
		return
	}

	if step.Expect.Case != outputCase {
		msg := fmt.Sprintf("flow[%d] %s: expected case %s, got %s", i, step.Invoke, step.Expect.Case, outputCase)
		if err != nil {
			msg += fmt.Sprintf(" (%v)", err)
		}
		result.AddError(msg)
		return
	}

	for _, key := range slices.Sorted(maps.Keys(step.Expect.Result)) {
		want := step.Expect.Result[key]
		got, ok := out[key]
		if !ok {
			result.AddError(fmt.Sprintf("flow[%d] %s: result has no field %q", i, step.Invoke, key))
			continue
		}
		if !valuesEqual(got, want) {
			result.AddError(fmt.Sprintf("flow[%d] %s: result.%s: expected %v, got %v", i, step.Invoke, key, want, got))
		}
	}
}

// invoke dispatches one operation and renders its outcome.
func (h *Harness) invoke(step FlowStep) (string, map[string]any, error) {
	switch step.Invoke {
	case OpCheckSet:
		return h.checkSet(step.Args)
	case OpRuleTable:
		return h.ruleTable(step.Args)
	case OpValidateFormat:
		return h.validateFormat(step.Args)
	case OpSpecies:
		return h.species(step.Args)
	}
	return "", nil, &argError{msg: fmt.Sprintf("unknown operation %q", step.Invoke)}
}

func (h *Harness) checkSet(args map[string]any) (string, map[string]any, error) {
	req := engine.SetRequest{}
	var err error
	if req.Format, err = stringArg(args, "format", true); err != nil {
		return "", nil, err
	}
	if req.Species, err = stringArg(args, "species", true); err != nil {
		return "", nil, err
	}
	if req.Ability, err = stringArg(args, "ability", false); err != nil {
		return "", nil, err
	}
	if req.Level, err = intArg(args, "level"); err != nil {
		return "", nil, err
	}
	if req.Moves, err = stringsArg(args, "moves"); err != nil {
		return "", nil, err
	}

	check, err := h.target.CheckSet(req)
	if err != nil {
		return "", nil, err
	}

	moves := make(map[string]any, len(check.Moves))
	for _, m := range check.Moves {
		if m.Conflict == nil {
			moves[m.Move] = "ok"
		} else {
			moves[m.Move] = m.Conflict.String()
		}
	}
	out := map[string]any{
		"format":  check.Format,
		"species": check.Species,
		"moves":   moves,
	}
	if !check.Legal() {
		return CaseIllegal, out, nil
	}
	out["sources"] = toAnySlice(check.Query.SourceStrings())
	out["sourcesBefore"] = check.Query.SourcesBefore
	return CaseLegal, out, nil
}

func (h *Harness) ruleTable(args map[string]any) (string, map[string]any, error) {
	name, err := stringArg(args, "format", true)
	if err != nil {
		return "", nil, err
	}
	table, f, err := h.target.RuleTable(name)
	if err != nil {
		return "", nil, err
	}
	return CaseSuccess, map[string]any{
		"format":          f.Name,
		"rules":           toAnySlice(table.Keys()),
		"complexBans":     len(table.ComplexBans),
		"complexTeamBans": len(table.ComplexTeamBans),
	}, nil
}

func (h *Harness) validateFormat(args map[string]any) (string, map[string]any, error) {
	name, err := stringArg(args, "format", true)
	if err != nil {
		return "", nil, err
	}
	canonical, err := h.target.ValidateFormat(name)
	if err != nil {
		return "", nil, err
	}
	return CaseSuccess, map[string]any{"canonical": canonical}, nil
}

func (h *Harness) species(args map[string]any) (string, map[string]any, error) {
	name, err := stringArg(args, "name", true)
	if err != nil {
		return "", nil, err
	}
	s, err := h.target.Species(name)
	if err != nil {
		return "", nil, err
	}
	return CaseSuccess, map[string]any{
		"name": s.Name,
		"num":  s.Num,
		"tier": s.Tier,
	}, nil
}

// argError marks a malformed step rather than a failed operation.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }

func stringArg(args map[string]any, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok {
		if required {
			return "", &argError{msg: fmt.Sprintf("args.%s is required", key)}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &argError{msg: fmt.Sprintf("args.%s must be a string, got %T", key, v)}
	}
	return s, nil
}

func intArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, &argError{msg: fmt.Sprintf("args.%s must be an integer, got %T", key, v)}
	}
	return n, nil
}

func stringsArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &argError{msg: fmt.Sprintf("args.%s must be a list, got %T", key, v)}
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &argError{msg: fmt.Sprintf("args.%s[%d] must be a string, got %T", key, i, item)}
		}
		out[i] = s
	}
	return out, nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// errorCode returns the stable code of a typed engine error.
func errorCode(err error) string {
	var (
		ruleErr   *rules.RuleError
		engineErr *engine.EngineError
		modErr    *dex.ModError
		loadErr   *data.LoadError
		checkErr  *learnset.CheckError
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
	}
	return "ERROR"
}
