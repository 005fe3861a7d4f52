package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"golang.org/x/text/language"

	gosolve "github.com/njchilds90/gosolve"
)

func newSolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <equation>",
		Short: "Solve an equation and explain each step",
		Example: `  gosolve solve "3(x - 1) = x + 5"
  gosolve solve "x/2 + 1 = 4" --lang es --pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := equationArg(args)
			unknown, tag := a.unknown(), a.language()

			eq, err := gosolve.Normalize(raw, unknown)
			if err != nil {
				return err
			}
			res := gosolve.Solve(eq, unknown, gosolve.WithLanguage(tag))
			model := gosolve.Classify(eq, raw, unknown).SuggestedModel
			a.logger.Debug("solved",
				zap.String("equation", eq.String()),
				zap.Stringer("kind", res.Solution.Kind),
				zap.Int("steps", len(res.Steps)),
			)

			pretty, _ := cmd.Flags().GetBool("pretty")
			style, _ := cmd.Flags().GetString("style")
			switch {
			case asJSON(cmd):
				if err := printJSON(cmd, res); err != nil {
					return err
				}
			case pretty:
				out, err := renderMarkdown(markdownReport(eq, model, res, unknown, tag), style)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			default:
				writeReport(cmd.OutOrStdout(), eq, model, res, unknown, tag)
			}
			return res.Err
		},
	}
	cmd.Flags().BoolP("pretty", "p", false, "Render the solution as formatted Markdown")
	cmd.Flags().String("style", "", "Glamour style for --pretty (dark, light, notty); detected when empty")
	return cmd
}

// writeReport prints the plain-text walkthrough.
func writeReport(w io.Writer, eq *gosolve.Equation, model gosolve.Model, res gosolve.Result, unknown string, tag language.Tag) {
	fmt.Fprintf(w, "%s\n%s\n\n", eq.String(), model.Name(tag))
	for _, st := range res.Steps {
		if st.Index == 0 {
			fmt.Fprintln(w, st.Description)
			continue
		}
		fmt.Fprintf(w, "%d. %s\n   %s\n", st.Index, st.Description, st.Text)
	}
	if res.Err == nil {
		fmt.Fprintf(w, "\n%s\n", res.Solution.Answer(unknown, tag))
	}
}

// markdownReport lays the walkthrough out as a Markdown document.
func markdownReport(eq *gosolve.Equation, model gosolve.Model, res gosolve.Result, unknown string, tag language.Tag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# `%s`\n\n_%s_\n\n", eq.String(), model.Name(tag))
	for _, st := range res.Steps {
		if st.Index == 0 {
			fmt.Fprintf(&b, "> %s\n\n", st.Description)
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n\n   `%s`\n\n", st.Index, st.Description, st.Text)
	}
	if res.Err == nil {
		fmt.Fprintf(&b, "**%s**\n", res.Solution.Answer(unknown, tag))
	}
	return b.String()
}

func renderMarkdown(md, style string) (string, error) {
	opt := glamour.WithAutoStyle() // Automatically detect light/dark background
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(wrapWidth()))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}

// wrapWidth follows the terminal, falling back to 80 columns when stdout
// is redirected.
func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
