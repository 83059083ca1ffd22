package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/engine"
)

// LearnsetResult is the legality of one set's moves.
type LearnsetResult struct {
	Check *engine.SetCheck `json:"check"`
	Legal bool             `json:"legal"`
}

func (r LearnsetResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s", r.Check.Species, r.Check.Format)
	for _, m := range r.Check.Moves {
		verdict := "ok"
		if m.Conflict != nil {
			verdict = m.Conflict.String()
		}
		fmt.Fprintf(&b, "\n  %s: %s", m.Move, verdict)
	}
	q := r.Check.Query
	switch {
	case len(q.Sources) > 0 && q.SourcesBefore > 0:
		fmt.Fprintf(&b, "\nsources: %s, or any before gen %d", strings.Join(q.SourceStrings(), ", "), q.SourcesBefore)
	case len(q.Sources) > 0:
		fmt.Fprintf(&b, "\nsources: %s", strings.Join(q.SourceStrings(), ", "))
	case q.SourcesBefore > 0:
		fmt.Fprintf(&b, "\nsources: any before gen %d", q.SourcesBefore)
	}
	if r.Legal {
		b.WriteString("\n✓ legal")
	} else {
		b.WriteString("\n✗ illegal")
	}
	return b.String()
}

// NewLearnsetCommand creates the learnset command.
func NewLearnsetCommand(rootOpts *RootOptions) *cobra.Command {
	var req engine.SetRequest

	cmd := &cobra.Command{
		Use:   "learnset <species> <move>...",
		Short: "Check whether a species can know a set of moves together",
		Long: `Check every move against one shared legality query under a format's
rules. Exits 1 when any move conflicts.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Species = args[0]
			req.Moves = args[1:]
			return runLearnset(rootOpts, req, cmd)
		},
	}

	cmd.Flags().StringVar(&req.Format, "rules", "", "format whose rules apply (default gen<current-gen>ou)")
	cmd.Flags().StringVar(&req.Ability, "ability", "", "ability the set has")
	cmd.Flags().IntVar(&req.Level, "level", 0, "level the set is at")
	return cmd
}

func runLearnset(opts *RootOptions, req engine.SetRequest, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	if req.Format == "" {
		req.Format = fmt.Sprintf("gen%dou", s.cfg.CurrentGen)
	}

	res, err := s.engine.CheckSet(req)
	if err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}
	out := LearnsetResult{Check: res, Legal: res.Legal()}
	if err := s.out.Success(out); err != nil {
		return err
	}
	if !out.Legal {
		return NewExitError(ExitFailure, ErrCodeIllegal)
	}
	return nil
}
