package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/engine"
)

// SpeciesResult is a computed species entry.
type SpeciesResult struct{ *dex.Species }

func (r SpeciesResult) String() string {
	s := r.Species
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d [%s] gen %d", s.Name, s.Num, strings.Join(s.Types, "/"), s.Gen)
	if s.Tier != "" {
		fmt.Fprintf(&b, " tier %s", s.Tier)
	}
	if s.IsForme() {
		fmt.Fprintf(&b, "\nforme of: %s", s.BaseSpecies)
	}
	var abilities []string
	for _, slot := range []struct{ label, name string }{
		{"", s.Abilities.First}, {"", s.Abilities.Second}, {"H: ", s.Abilities.Hidden}, {"S: ", s.Abilities.Special},
	} {
		if slot.name != "" {
			abilities = append(abilities, slot.label+slot.name)
		}
	}
	fmt.Fprintf(&b, "\nabilities: %s", strings.Join(abilities, ", "))
	st := s.BaseStats
	fmt.Fprintf(&b, "\nbase stats: %d/%d/%d/%d/%d/%d (%d)", st.HP, st.Atk, st.Def, st.SpA, st.SpD, st.Spe, st.Total())
	if len(s.EggGroups) > 0 {
		fmt.Fprintf(&b, "\negg groups: %s", strings.Join(s.EggGroups, ", "))
	}
	if s.Prevo != "" {
		fmt.Fprintf(&b, "\nprevo: %s", s.Prevo)
	}
	if len(s.Evos) > 0 {
		fmt.Fprintf(&b, "\nevos: %s", strings.Join(s.Evos, ", "))
	}
	return b.String()
}

// MoveResult is a computed move entry.
type MoveResult struct{ *dex.Move }

func (r MoveResult) String() string {
	m := r.Move
	s := fmt.Sprintf("%s [%s %s] gen %d, %d BP, %d PP", m.Name, m.Type, m.Category, m.Gen, m.BasePower, m.PP)
	if m.Priority != 0 {
		s += fmt.Sprintf(", priority %+d", m.Priority)
	}
	return s
}

// ItemResult is a computed item entry.
type ItemResult struct{ *dex.Item }

func (r ItemResult) String() string {
	s := fmt.Sprintf("%s #%d gen %d", r.Name, r.Num, r.Gen)
	if r.Fling != nil {
		s += fmt.Sprintf(", fling %d BP", r.Fling.BasePower)
	}
	return s
}

// AbilityResult is a computed ability entry.
type AbilityResult struct{ *dex.Ability }

func (r AbilityResult) String() string {
	return fmt.Sprintf("%s #%d gen %d", r.Name, r.Num, r.Gen)
}

// NewDexCommand creates the dex command and its entry subcommands.
func NewDexCommand(rootOpts *RootOptions) *cobra.Command {
	var mod string

	cmd := &cobra.Command{
		Use:   "dex",
		Short: "Look up species, moves, items and abilities",
	}
	cmd.PersistentFlags().StringVar(&mod, "mod", "", "mod to look up in (default from config)")

	lookup := func(kind string, get func(d *dex.Dex, name string) (any, bool)) *cobra.Command {
		return &cobra.Command{
			Use:           kind + " <name>",
			Short:         "Show a computed " + kind + " entry",
			Args:          cobra.ExactArgs(1),
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDex(rootOpts, mod, kind, args[0], get, cmd)
			},
		}
	}

	cmd.AddCommand(lookup("species", func(d *dex.Dex, name string) (any, bool) {
		s, ok := d.Species(name)
		return SpeciesResult{s}, ok
	}))
	cmd.AddCommand(lookup("move", func(d *dex.Dex, name string) (any, bool) {
		m, ok := d.Move(name)
		return MoveResult{m}, ok
	}))
	cmd.AddCommand(lookup("item", func(d *dex.Dex, name string) (any, bool) {
		it, ok := d.Item(name)
		return ItemResult{it}, ok
	}))
	cmd.AddCommand(lookup("ability", func(d *dex.Dex, name string) (any, bool) {
		a, ok := d.Ability(name)
		return AbilityResult{a}, ok
	}))
	return cmd
}

func runDex(opts *RootOptions, mod, kind, name string, get func(*dex.Dex, string) (any, bool), cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	d, err := s.engine.Dex(mod)
	if err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}
	entry, ok := get(d, name)
	if !ok {
		return fail(s.out, ExitCommandError, string(engine.ErrCodeUnknownEntity), fmt.Errorf("no %s %q in mod %s", kind, name, d.Mod()))
	}
	return s.out.Success(entry)
}
