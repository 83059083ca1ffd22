package cli

import (
	"github.com/spf13/cobra"
)

// ValidateFormatResult is a validated custom format string.
type ValidateFormatResult struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
}

func (r ValidateFormatResult) String() string {
	return r.Canonical
}

// NewValidateFormatCommand creates the validate-format command.
func NewValidateFormatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-format <base@@@rules>",
		Short: "Validate a format with custom rules",
		Long: `Validate a format name with comma-separated custom rules and print its
canonical form. Every custom rule is checked against the base format.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateFormat(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidateFormat(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	canonical, err := s.engine.ValidateFormat(name)
	if err != nil {
		return fail(s.out, ExitFailure, "", err)
	}
	return s.out.Success(ValidateFormatResult{Input: name, Canonical: canonical})
}
