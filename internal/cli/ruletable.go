package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/rules"
)

// RuleTableResult is a compiled format.
type RuleTableResult struct {
	Format string           `json:"format"`
	Table  *rules.RuleTable `json:"table"`
}

// String renders one rule per line with the sub-format it came from.
func (r RuleTableResult) String() string {
	var b strings.Builder
	b.WriteString(r.Format)
	b.WriteString("\nrules:")
	for _, key := range r.Table.Keys() {
		fmt.Fprintf(&b, "\n  %s", key)
		if src, _ := r.Table.Get(key); src != "" {
			fmt.Fprintf(&b, " (from %s)", src)
		}
	}
	writeRestrictions(&b, "complex bans", r.Table.ComplexBans)
	writeRestrictions(&b, "complex team bans", r.Table.ComplexTeamBans)
	if h := r.Table.Hook; h != nil {
		fmt.Fprintf(&b, "\nlearnset hook: %s (from %s)", h.Name, h.Owner)
	}
	return b.String()
}

func writeRestrictions(b *strings.Builder, title string, list []rules.Restriction) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:", title)
	for _, r := range list {
		limit := "unlimited"
		if r.Limit != rules.Unlimited {
			limit = fmt.Sprintf("limit %d", r.Limit)
		}
		fmt.Fprintf(b, "\n  %s (%s", r.Rule, limit)
		if r.Source != "" {
			fmt.Fprintf(b, ", from %s", r.Source)
		}
		b.WriteString(")")
	}
}

// NewRuleTableCommand creates the ruletable command.
func NewRuleTableCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ruletable <format>",
		Short: "Show the compiled rules of a format",
		Long: `Compile a format, optionally with custom rules ("gen7ou@@@-Pikachu"),
and print its flattened rule table, complex bans and learnset hook.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleTable(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRuleTable(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	table, f, err := s.engine.RuleTable(name)
	if err != nil {
		return fail(s.out, ExitFailure, "", err)
	}
	s.out.VerboseLog("Compiled %s: %d rules", f.ID, table.Len())
	return s.out.Success(RuleTableResult{Format: f.Name, Table: table})
}
