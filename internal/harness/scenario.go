package harness

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: operations to invoke against
// an engine and assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow lists the operations to invoke, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace and compiled rule tables.
	// Supported types: trace_contains, trace_order, trace_count, rule_table
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep invokes one engine operation.
type FlowStep struct {
	// Invoke is the operation name (CheckSet, RuleTable, ValidateFormat, Species).
	Invoke string `yaml:"invoke"`

	// Args contains the operation arguments.
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected completion. If nil, any completion
	// other than Error passes.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected completion behavior.
type ExpectClause struct {
	// Case is the expected output case (Success, Legal, Illegal, Error).
	Case string `yaml:"case"`

	// Result contains expected result field values.
	// This is a subset match - only specified fields are validated.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or a compiled rule table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": operation appears in trace with args
	// - "trace_order": operations appear in order
	// - "trace_count": operation appears exactly N times
	// - "rule_table": compiled table has and lacks rule keys
	Type string `yaml:"type"`

	// Invoke is the operation name (trace_contains, trace_count).
	Invoke string `yaml:"invoke,omitempty"`

	// Args are the expected operation arguments (trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Invokes is the expected operation order (trace_order).
	Invokes []string `yaml:"invokes,omitempty"`

	// Format is the format to compile (rule_table).
	Format string `yaml:"format,omitempty"`

	// Has and Lacks are rule keys the table must and must not contain
	// (rule_table).
	Has   []string `yaml:"has,omitempty"`
	Lacks []string `yaml:"lacks,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertRuleTable     = "rule_table"
)

// Operation names.
const (
	OpCheckSet       = "CheckSet"
	OpRuleTable      = "RuleTable"
	OpValidateFormat = "ValidateFormat"
	OpSpecies        = "Species"
)

// Output cases.
const (
	CaseSuccess = "Success"
	CaseLegal   = "Legal"
	CaseIllegal = "Illegal"
	CaseError   = "Error"
)

var operations = []string{OpCheckSet, OpRuleTable, OpValidateFormat, OpSpecies}

var cases = []string{CaseSuccess, CaseLegal, CaseIllegal, CaseError}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the YAML files under dir whose base name (without
// extension) matches the glob filter, sorted. An empty filter matches all.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("flow or assertions must be non-empty")
	}

	for i, step := range s.Flow {
		if step.Invoke == "" {
			return fmt.Errorf("flow[%d]: invoke is required", i)
		}
		if !slices.Contains(operations, step.Invoke) {
			return fmt.Errorf("flow[%d]: unknown operation %q", i, step.Invoke)
		}
		if step.Args == nil {
			return fmt.Errorf("flow[%d]: args is required", i)
		}
		if step.Expect != nil {
			if step.Expect.Case == "" {
				return fmt.Errorf("flow[%d].expect: case is required", i)
			}
			if !slices.Contains(cases, step.Expect.Case) {
				return fmt.Errorf("flow[%d].expect: unknown case %q", i, step.Expect.Case)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Invoke == "" {
			return fmt.Errorf("assertions[%d]: invoke is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Invokes) == 0 {
			return fmt.Errorf("assertions[%d]: invokes list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Invoke == "" {
			return fmt.Errorf("assertions[%d]: invoke is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertRuleTable:
		if a.Format == "" {
			return fmt.Errorf("assertions[%d]: format is required for rule_table", index)
		}
		if len(a.Has) == 0 && len(a.Lacks) == 0 {
			return fmt.Errorf("assertions[%d]: has or lacks is required for rule_table", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
