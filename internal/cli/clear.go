package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ClearResult is the payload of the clear command.
type ClearResult struct {
	Cleared bool   `json:"cleared"`
	File    string `json:"file"`
}

// RenderText reports whether a log was removed.
func (r ClearResult) RenderText(w io.Writer) error {
	msg := "No log to clear."
	if r.Cleared {
		msg = "Log cleared."
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole log",
		Long: `Delete the log file. This cannot be undone, so --yes is required.

Exit codes:
  0 - Log deleted, or there was no log
  1 - The log could not be deleted
  2 - --yes was not given`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if !yes {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, "refusing to clear the log without --yes", nil)
			}

			f, err := rootOpts.Facade()
			if err != nil {
				return err
			}

			cleared, err := f.Clear()
			if err != nil {
				return formatter.Fail(ExitFailure, ErrCodeClearFailed, "failed to clear log", err)
			}
			return formatter.Success(ClearResult{Cleared: cleared, File: f.Path()})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
