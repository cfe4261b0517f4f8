package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	List     bool
}

type batchView export.Batch

// RenderText summarizes one export.
func (b batchView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Exported %d records from %s (batch %s)\n", b.Count, b.Source, b.ID)
	return err
}

type batchList []export.Batch

// RenderText prints previous exports as a table.
func (l batchList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No exports yet.")
		return err
	}

	t := newTable("BATCH", "EXPORTED_AT", "RECORDS", "SOURCE")
	for _, b := range l {
		t.addRow(b.ID, b.ExportedAt.Format(time.RFC3339), strconv.Itoa(b.Count), b.Source)
	}
	return t.render(w)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the log into a SQLite database",
		Long: `Copy every record of the log into a SQLite database as a new batch.
The database is created if needed. Use --list to show previous batches.

Exit codes:
  0 - Export written (or listed)
  1 - The database could not be written
  2 - Command error (database cannot be opened, etc.)

Examples:
  arealog export --db ./areas.db
  arealog export --db ./areas.db --list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list previous exports instead of exporting")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, `required flag "db" not set`)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	var exportOpts []export.Option
	if opts.Clock != nil {
		exportOpts = append(exportOpts, export.WithClock(opts.Clock))
	}

	exp, err := export.Open(opts.Database, exportOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeExportFailed, "failed to open database", err)
	}
	defer exp.Close()

	if opts.List {
		batches, err := exp.Batches(ctx)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeExportFailed, "failed to list exports", err)
		}
		return formatter.Success(batchList(batches))
	}

	f, err := opts.Facade()
	if err != nil {
		return err
	}

	batch, err := exp.Export(ctx, f.Path(), f.LoadAll())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeExportFailed, "failed to export log", err)
	}
	formatter.VerboseLog("Wrote batch %s to %s", batch.ID, opts.Database)
	return formatter.Success(batchView(batch))
}
