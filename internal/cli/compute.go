package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arealog/internal/geometry"
)

// ComputeResult is the payload of the compute command.
type ComputeResult struct {
	Figure     string             `json:"figura"`
	Area       float64            `json:"area"`
	Parameters map[string]float64 `json:"parametros"`
}

// RenderText prints the computed area.
func (r ComputeResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %s\n", r.Figure, formatNumber(r.Area))
	return err
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute <figure> name=value...",
		Short: "Compute an area and record it in the log",
		Long: `Compute the area of a figure and append the result to the log.

Parameters are given as name=value pairs; run "arealog figures" for the
parameters of each figure. Areas are rounded to two decimals.

Exit codes:
  0 - Area computed and recorded
  1 - Invalid figure or parameters, or the log could not be written

Examples:
  arealog compute circulo radio=2
  arealog compute poligono_regular num_lados=6 lado=4 apotema=3.46`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cat, err := geometry.DefaultCatalog()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return cat.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(rootOpts, cmd, args[0], args[1:])
		},
	}
	return cmd
}

func runCompute(opts *RootOptions, cmd *cobra.Command, figure string, pairs []string) error {
	formatter := opts.formatter(cmd)

	f, err := opts.Facade()
	if err != nil {
		return err
	}
	cat, err := geometry.DefaultCatalog()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to load figure catalog", err)
	}

	calc := geometry.NewCalculator(cat, f, opts.Clock)
	figure = strings.ToLower(strings.TrimSpace(figure))

	params, err := calc.ParseArgs(figure, pairs)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), nil)
	}

	area, err := calc.Compute(figure, params)
	if geometry.IsValidationError(err) {
		return formatter.Fail(ExitFailure, ErrCodeInvalidInput, err.Error(), nil)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeAppendFailed, "failed to record result", err)
	}

	formatter.VerboseLog("Recorded %s in %s", figure, f.Path())
	return formatter.Success(ComputeResult{
		Figure:     figure,
		Area:       area,
		Parameters: params,
	})
}
