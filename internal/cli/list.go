package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/record"
)

// DefaultLast is the number of records shown by "last" without an argument.
const DefaultLast = 5

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every record in the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(rootOpts, cmd, func(f facadeReader) []record.Record {
				return f.LoadAll()
			})
		},
	}
}

// NewLastCommand creates the last command.
func NewLastCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "last [n]",
		Short: "Show the most recent records",
		Long: `Show the n most recent records, oldest first (default 5).

Examples:
  arealog last
  arealog last 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := DefaultLast
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 0 {
					return NewExitError(ExitCommandError, "n must be a non-negative integer")
				}
				n = parsed
			}
			return runRecords(rootOpts, cmd, func(f facadeReader) []record.Record {
				return f.LoadLast(n)
			})
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <figure>",
		Short: "Show the records of one figure",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			f, err := rootOpts.Facade()
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return f.Categories(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(rootOpts, cmd, func(f facadeReader) []record.Record {
				return f.FilterByCategory(args[0])
			})
		},
	}
}

// facadeReader is the read side of query.Facade used by listing commands.
type facadeReader interface {
	LoadAll() []record.Record
	LoadLast(n int) []record.Record
	FilterByCategory(name string) []record.Record
}

func runRecords(opts *RootOptions, cmd *cobra.Command, read func(facadeReader) []record.Record) error {
	f, err := opts.Facade()
	if err != nil {
		return err
	}
	return opts.formatter(cmd).Success(recordList(read(f)))
}
