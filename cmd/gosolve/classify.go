package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <equation>",
		Short: "Suggest the teaching model for an equation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := equationArg(args)
			eq, err := gosolve.Normalize(raw, a.unknown())
			if err != nil {
				return err
			}
			c := gosolve.Classify(eq, raw, a.unknown())
			name := c.SuggestedModel.Name(a.language())

			if asJSON(cmd) {
				return printJSON(cmd, map[string]interface{}{
					"equation":       eq.String(),
					"classification": c,
					"model_name":     name,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, name)
			fmt.Fprintf(out, "  grouping:     %t\n", c.HasGrouping)
			fmt.Fprintf(out, "  fractions:    %t\n", c.HasFraction)
			fmt.Fprintf(out, "  unknown once: %t\n", c.UnknownOnce)
			fmt.Fprintf(out, "  unknown many: %t\n", c.UnknownMany)
			return nil
		},
	}
}
