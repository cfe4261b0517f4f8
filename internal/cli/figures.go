package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/geometry"
)

// FigureInfo describes one figure for the figures command.
type FigureInfo struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Parameters []string `json:"parameters"`
	Logged     int      `json:"logged"`
}

type figureList []FigureInfo

// RenderText prints the catalog as a table.
func (l figureList) RenderText(w io.Writer) error {
	t := newTable("FIGURE", "TITLE", "LOGGED", "PARAMETERS")
	t.maxWidth = terminalWidth(w)
	for _, fi := range l {
		t.addRow(fi.Name, fi.Title, strconv.Itoa(fi.Logged), strings.Join(fi.Parameters, " "))
	}
	return t.render(w)
}

// NewFiguresCommand creates the figures command.
func NewFiguresCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "figures",
		Short: "List supported figures and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			cat, err := geometry.DefaultCatalog()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to load figure catalog", err)
			}
			f, err := rootOpts.Facade()
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			for _, r := range f.LoadAll() {
				counts[r.Category]++
			}

			out := make(figureList, 0, len(cat.Names()))
			for _, fig := range cat.Figures() {
				params := make([]string, len(fig.Params))
				for i, p := range fig.Params {
					params[i] = p.Name + "=" + string(p.Kind)
				}
				out = append(out, FigureInfo{
					Name:       fig.Name,
					Title:      fig.Title,
					Parameters: params,
					Logged:     counts[fig.Name],
				})
			}
			return formatter.Success(out)
		},
	}
}
