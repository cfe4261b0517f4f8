package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/record"
	"github.com/roach88/arealog/internal/store"
	"github.com/roach88/arealog/internal/watch"
)

// NewFollowCommand creates the follow command.
func NewFollowCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		count    int
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Print records as they are appended to the log",
		Long: `Watch the log and print each record appended after the command
starts, including appends made by other processes. With --format json every
record is printed as one JSON line.

Runs until interrupted, or until --count records were printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(rootOpts, cmd, count, debounce)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after printing this many records (0 = no limit)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait for writes to settle this long")
	_ = cmd.Flags().MarkHidden("debounce")

	return cmd
}

func runFollow(opts *RootOptions, cmd *cobra.Command, count int, debounce time.Duration) error {
	formatter := opts.formatter(cmd)

	f, err := opts.Facade()
	if err != nil {
		return err
	}

	w, err := watch.New(f.Path(), f.Cache(), watch.WithDebounce(debounce))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWatchFailed, "failed to watch log", err)
	}
	defer w.Stop()

	seen := len(f.LoadAll())
	formatter.VerboseLog("Following %s (%d existing records)", f.Path(), seen)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Events():
			if !ok {
				return nil
			}

			records := f.LoadAll()
			start, ok := resumeFrom(f.Path(), seen, len(records))
			if !ok {
				formatter.VerboseLog("Log is being written, waiting for the next change")
				continue
			}
			if start < seen {
				formatter.VerboseLog("Log was cleared")
			}

			for _, r := range records[start:] {
				if err := writeFollowLine(cmd.OutOrStdout(), formatter.Format, r); err != nil {
					return err
				}
				printed++
				if count > 0 && printed >= count {
					return nil
				}
			}
			seen = len(records)
		}
	}
}

// resumeFrom returns the index of the first record to print after a reload
// of n records when seen were already printed. A shorter log counts as
// cleared only when the file is gone or parses as a shorter log; a file that
// does not parse is mid-write and the reload is skipped (ok is false).
func resumeFrom(path string, seen, n int) (start int, ok bool) {
	if n >= seen {
		return seen, true
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, true
	}
	if err != nil {
		return seen, false
	}
	if _, err := store.Parse(data); err != nil {
		return seen, false
	}
	return 0, true
}

func writeFollowLine(w io.Writer, format string, r record.Record) error {
	if format == "json" {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	fields := []string{r.Timestamp, r.Category, formatArea(r.Value), formatParams(r.Parameters)}
	_, err := fmt.Fprintln(w, strings.Join(fields, columnGap))
	return err
}
