package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// FormatsResult lists format ids and, when checked, those that fail to
// compile.
type FormatsResult struct {
	Formats  []string          `json:"formats"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (r FormatsResult) String() string {
	if r.Failures == nil {
		return strings.Join(r.Formats, "\n")
	}
	if len(r.Failures) == 0 {
		return fmt.Sprintf("✓ All %d formats compile", len(r.Formats))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %d of %d formats fail to compile:", len(r.Failures), len(r.Formats))
	for _, id := range slices.Sorted(maps.Keys(r.Failures)) {
		fmt.Fprintf(&b, "\n  %s: %s", id, r.Failures[id])
	}
	return b.String()
}

// NewFormatsCommand creates the formats command.
func NewFormatsCommand(rootOpts *RootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:           "formats",
		Short:         "List formats, optionally compiling every one",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormats(rootOpts, check, cmd)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "compile every format and report failures")
	return cmd
}

func runFormats(opts *RootOptions, check bool, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	res := FormatsResult{Formats: s.engine.Formats()}
	if !check {
		return s.out.Success(res)
	}

	res.Failures = make(map[string]string)
	for id, err := range s.engine.CompileAll() {
		res.Failures[id] = err.Error()
	}
	if err := s.out.Success(res); err != nil {
		return err
	}
	if len(res.Failures) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d formats", ErrCodeCompileFailures, len(res.Failures)))
	}
	return nil
}
