package cli

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics of the log",
		Long: `Show the record count, the mean, maximum, and minimum area, and the
most frequent figure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rootOpts.Facade()
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(statsView(f.Statistics()))
		},
	}
}
