package cli

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/paramsearch"
	"github.com/DatSpookTho/Lanette/internal/store"
)

// ParamsResult is a parameter search or intersection outcome.
type ParamsResult struct {
	*paramsearch.Response
	search bool
}

func (r ParamsResult) String() string {
	var b strings.Builder
	if len(r.PokemonIDs) == 0 {
		b.WriteString("No Pokémon match")
		if len(r.Params) > 0 {
			b.WriteString(" " + paramsearch.Describe(r.Params))
		}
	} else {
		fmt.Fprintf(&b, "%s: %s", paramsearch.Describe(r.Params), strings.Join(r.PokemonIDs, ", "))
	}
	if r.search {
		fmt.Fprintf(&b, "\nnext seed: %d,%d", r.Seed[0], r.Seed[1])
	}
	return b.String()
}

type paramsOptions struct {
	count       int
	seed        string
	types       []string
	customTypes []string
	min, max    int
	mod         string
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &paramsOptions{}

	cmd := &cobra.Command{
		Use:   "params [token]...",
		Short: "Run a dexsearch parameter search",
		Long: `Without arguments, draw random parameters that between --min and --max
Pokémon share. With arguments, intersect the given parameters instead, e.g.

  lanette params "Fire type" "Field Group"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 2, "number of parameters")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "PRNG seed as two integers \"a,b\" (default random)")
	cmd.Flags().StringSliceVar(&opts.types, "types", nil, "parameter types to draw from (default all)")
	cmd.Flags().StringSliceVar(&opts.customTypes, "custom-types", nil, "fixed type of each parameter; overrides --count")
	cmd.Flags().IntVar(&opts.min, "min", 1, "minimum number of results")
	cmd.Flags().IntVar(&opts.max, "max", 0, "maximum number of results (0 is unbounded)")
	cmd.Flags().StringVar(&opts.mod, "mod", "", "mod to search (default from config)")
	return cmd
}

func runParams(opts *RootOptions, popts *paramsOptions, tokens []string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	seed, err := parseSeed(popts.seed)
	if err != nil {
		return fail(s.out, ExitCommandError, ErrCodeBadFlag, err)
	}

	st, err := store.OpenMemory()
	if err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}
	defer st.Close()
	index := paramsearch.NewIndex(s.engine, st, paramsearch.WithLogger(s.logger))

	mod := popts.mod
	if mod == "" {
		mod = s.cfg.DefaultMod
	}

	ctx := cmd.Context()
	var res ParamsResult
	if len(tokens) > 0 {
		resp, err := index.Intersect(ctx, paramsearch.IntersectRequest{
			Mod:        mod,
			ParamTypes: paramTypes(popts.types),
			SearchType: paramsearch.SearchPokemon,
			Seed:       seed,
		}, tokens)
		if err != nil {
			return fail(s.out, ExitCommandError, "", err)
		}
		res = ParamsResult{Response: resp}
	} else {
		resp, err := index.Search(ctx, paramsearch.Request{
			NumberOfParams:   popts.count,
			ParamTypes:       paramTypes(popts.types),
			CustomParamTypes: paramTypes(popts.customTypes),
			Mod:              mod,
			Seed:             seed,
			SearchType:       paramsearch.SearchPokemon,
			MinimumResults:   popts.min,
			MaximumResults:   popts.max,
		})
		if err != nil {
			return fail(s.out, ExitCommandError, "", err)
		}
		res = ParamsResult{Response: resp, search: true}
	}
	return s.out.SuccessWithRequest(res, res.RequestID)
}

func paramTypes(names []string) []paramsearch.ParamType {
	if len(names) == 0 {
		return nil
	}
	out := make([]paramsearch.ParamType, len(names))
	for i, n := range names {
		out[i] = paramsearch.ParamType(strings.ToLower(strings.TrimSpace(n)))
	}
	return out
}

// parseSeed reads "a,b". Empty draws a random seed.
func parseSeed(s string) (paramsearch.Seed, error) {
	if s == "" {
		return paramsearch.Seed{rand.Uint64(), rand.Uint64()}, nil
	}
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return paramsearch.Seed{}, fmt.Errorf("seed %q: want two integers \"a,b\"", s)
	}
	hi, err := strconv.ParseUint(strings.TrimSpace(a), 10, 64)
	if err != nil {
		return paramsearch.Seed{}, fmt.Errorf("seed %q: %w", s, err)
	}
	lo, err := strconv.ParseUint(strings.TrimSpace(b), 10, 64)
	if err != nil {
		return paramsearch.Seed{}, fmt.Errorf("seed %q: %w", s, err)
	}
	return paramsearch.Seed{hi, lo}, nil
}
