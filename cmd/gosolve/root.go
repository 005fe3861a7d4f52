package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/config"
	"github.com/njchilds90/gosolve/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) unknown() string { return a.cfg.Solver.Unknown }
func (a *app) language() language.Tag { return gosolve.MatchLanguage(a.cfg.LanguageTag().String()) }

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gosolve",
		Short: "gosolve solves first-degree equations step by step",
		Long: `gosolve cleans up textbook linear equations, sorts them into a teaching
model and solves them, explaining every step in English or Spanish.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().StringP("unknown", "u", "", "Letter to solve for (default from config, x)")
	root.PersistentFlags().StringP("lang", "l", "", "Language for step descriptions (en, es)")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")

	root.AddCommand(
		newNormalizeCmd(a),
		newClassifyCmd(a),
		newSolveCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the config file, lets flags override it and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("unknown"); v != "" {
		cfg.Solver.Unknown = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Solver.Language = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// equationArg joins the positional arguments so unquoted input such as
// `gosolve solve 2x + 1 = 5` still reads as one equation.
func equationArg(args []string) string {
	return strings.Join(args, " ")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
