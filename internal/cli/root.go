package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/cache"
	"github.com/roach88/arealog/internal/clock"
	"github.com/roach88/arealog/internal/config"
	"github.com/roach88/arealog/internal/query"
	"github.com/roach88/arealog/internal/stats"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	File       string

	// Clock stamps computed records. Nil uses the system clock.
	Clock clock.Clock

	config *config.Config
	facade *query.Facade
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the arealog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arealog",
		Short: "arealog - geometric area calculator with a persistent log",
		Long: `Compute areas of geometric figures and keep every result in an
append-only JSON log (areas.json by default).

The log path comes from --file, then the AREALOG_FILE environment variable,
then the config file, then the default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := opts.loadConfig(); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), opts.logLevel())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.File, "file", "", "path to the area log (overrides config and AREALOG_FILE)")

	cmd.AddCommand(NewComputeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewLastCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewFiguresCommand(opts))
	cmd.AddCommand(NewFollowCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})
	for _, sub := range cmd.Commands() {
		if sub.Args != nil {
			sub.Args = commandArgs(sub.Args)
		}
	}

	return cmd
}

// commandArgs makes positional-argument misuse exit with ExitCommandError.
func commandArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// loadConfig resolves settings once per invocation. The --file flag wins
// over everything else.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.config != nil {
		return o.config, nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.File != "" {
		cfg.File = o.File
	}
	o.config = &cfg
	return o.config, nil
}

// Facade returns the query facade for the configured log.
func (o *RootOptions) Facade() (*query.Facade, error) {
	if o.facade != nil {
		return o.facade, nil
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	o.facade = query.Open(cfg.File,
		[]cache.Option{cache.WithTTL(cfg.CacheTTL)},
		[]stats.Option{stats.WithCapacity(cfg.StatsCapacity)},
	)
	return o.facade, nil
}

func (o *RootOptions) logLevel() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	if o.config == nil {
		return slog.LevelWarn
	}
	return o.config.SlogLevel()
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// setupLogging routes library logs to w. Stdout stays reserved for command
// output.
func setupLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
