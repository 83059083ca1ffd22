package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/paramsearch"
	"github.com/DatSpookTho/Lanette/internal/store"
	"github.com/DatSpookTho/Lanette/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload on data changes and recompile every format",
		Long: `Watch the data directory. After each burst of changes the data is
reloaded, every format is recompiled and failures are logged. A reload
that fails keeps the previous data. Stops on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, debounce, cmd)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a reload")
	return cmd
}

func runWatch(opts *RootOptions, debounce time.Duration, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	st, err := store.OpenMemory()
	if err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}
	defer st.Close()
	index := paramsearch.NewIndex(s.engine, st, paramsearch.WithLogger(s.logger))

	for id, err := range s.engine.CompileAll() {
		s.logger.Warn("format does not compile", "format", id, "error", err)
	}

	w, err := watch.New(watch.Config{Dir: s.cfg.DataDir, Debounce: debounce}, s.engine,
		watch.WithLogger(s.logger),
		watch.WithInvalidator(index),
	)
	if err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		return fail(s.out, ExitCommandError, "", err)
	}
	return nil
}
