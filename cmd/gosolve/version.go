package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gosolve",
		// No config is needed to report the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gosolve version %s\n", gosolve.Version)
		},
	}
}
