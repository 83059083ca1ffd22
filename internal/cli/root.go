package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/DatSpookTho/Lanette/internal/config"
	"github.com/DatSpookTho/Lanette/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// DataDir overrides the configured data directory when set.
	DataDir string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the Lanette CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lanette",
		Short: "Lanette - dex rules engine",
		Long: `Query a mod-layered Pokémon data tree: entries, compiled format rules,
custom rule validation, learnset legality and dexsearch parameters.`,
		SilenceErrors: true, // main prints errors no command reported
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	pf.StringVarP(&opts.DataDir, "data-dir", "d", "", "data directory (default \"data\")")

	// Bound into config by name; their zero defaults never override it.
	pf.Int("current-gen", 0, "newest supported generation")
	pf.Int("max-rule-depth", 0, "bound on nested ruleset expansion")
	pf.String("default-mod", "", "mod used for entry lookups")
	pf.String("log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewRuleTableCommand(opts))
	cmd.AddCommand(NewLearnsetCommand(opts))
	cmd.AddCommand(NewValidateFormatCommand(opts))
	cmd.AddCommand(NewDexCommand(opts))
	cmd.AddCommand(NewFormatsCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// session is what a command works with once configuration is loaded.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	engine *engine.Engine
	out    *OutputFormatter
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// open loads configuration and the data tree. Failures are reported through
// the formatter and returned as command errors.
func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	out := o.formatter(cmd)

	cfg, err := config.Load(config.LoadOptions{ConfigFile: o.ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, fail(out, ExitCommandError, ErrCodeConfig, err)
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	if info, err := os.Stat(cfg.DataDir); err != nil || !info.IsDir() {
		return nil, fail(out, ExitCommandError, ErrCodeDataDirNotFound, fmt.Errorf("data directory not found: %s", cfg.DataDir))
	}

	out.VerboseLog("Loading data from %s", cfg.DataDir)
	e, err := engine.New(cfg, os.DirFS(cfg.DataDir), engine.WithLogger(logger))
	if err != nil {
		return nil, fail(out, ExitCommandError, "", err)
	}
	return &session{cfg: cfg, logger: logger, engine: e, out: out}, nil
}

// newLogger returns a slog logger backed by charmbracelet/log.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "lanette",
		ReportTimestamp: true,
	})
	return slog.New(handler)
}
