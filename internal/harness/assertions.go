package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			if event.Type == "invocation" {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Invoke, event.Args)
			}
		}
	}
	return buf.String()
}

// invocations returns the invoked operation names in trace order.
func invocations(trace []TraceEvent) []string {
	var out []string
	for _, event := range trace {
		if event.Type == "invocation" {
			out = append(out, event.Invoke)
		}
	}
	return out
}

// assertTraceContains checks if the trace contains an invocation matching
// the operation and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type == "invocation" && event.Invoke == assertion.Invoke && matchArgs(event.Args, assertion.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s with args %v", assertion.Invoke, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that operations appear in the given order.
// Intervening invocations are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	invoked := invocations(trace)
	pos := 0
	for _, want := range assertion.Invokes {
		found := false
		for pos < len(invoked) {
			pos++
			if invoked[pos-1] == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("order %v", assertion.Invokes),
				Actual:   fmt.Sprintf("%s missing or out of order in %v", want, invoked),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that an operation was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, name := range invocations(trace) {
		if name == assertion.Invoke {
			count++
		}
	}
	if count == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s invoked %d times", assertion.Invoke, assertion.Count),
		Actual:   fmt.Sprintf("invoked %d times", count),
		Trace:    trace,
	}
}

// assertRuleTable compiles the format and checks its keys.
func assertRuleTable(target Target, assertion Assertion) error {
	table, _, err := target.RuleTable(assertion.Format)
	if err != nil {
		return &AssertionError{
			Type:     AssertRuleTable,
			Expected: fmt.Sprintf("%s compiles", assertion.Format),
			Actual:   err.Error(),
		}
	}

	var missing, present []string
	for _, key := range assertion.Has {
		if !table.Has(key) {
			missing = append(missing, key)
		}
	}
	for _, key := range assertion.Lacks {
		if table.Has(key) {
			present = append(present, key)
		}
	}
	if len(missing) == 0 && len(present) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertRuleTable,
		Expected: fmt.Sprintf("%s has %v and lacks %v", assertion.Format, assertion.Has, assertion.Lacks),
		Actual:   fmt.Sprintf("missing %v, unexpected %v", missing, present),
	}
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares YAML-decoded values. Maps match as subsets; lists
// and scalars must be equal.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if want, ok := expected.(map[string]any); ok {
		got, ok := actual.(map[string]any)
		return ok && matchArgs(got, want)
	}
	return reflect.DeepEqual(actual, expected)
}

// evaluateAssertions returns a message for each failed assertion.
func (h *Harness) evaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertRuleTable:
			err = assertRuleTable(h.target, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
