package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gosolve "github.com/njchilds90/gosolve"
)

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <equation>",
		Short: "Clean up an equation and print its canonical form",
		Long: `Strips exercise labels and markup from the input, parses it and prints the
equation in plain text and as LaTeX display math.`,
		Example: `  gosolve normalize "3a) 2x + 4 = 10"
  gosolve normalize '\frac{x}{2} = 3' --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := equationArg(args)
			eq, err := gosolve.Normalize(raw, a.unknown())
			if err != nil {
				a.logger.Debug("normalize failed", zap.String("equation", raw), zap.Error(err))
				return err
			}

			if asJSON(cmd) {
				return printJSON(cmd, map[string]interface{}{
					"equation": eq,
					"markup":   eq.Markup(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, eq.String())
			fmt.Fprintln(out, eq.Markup())
			return nil
		},
	}
}
