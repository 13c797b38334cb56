package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/minishell/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the shell runs itself
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range shell.BuiltinNames() {
			if doc, ok := shell.AllBuiltins[name].(*shell.BuiltinCommand); ok {
				fmt.Fprintf(w, "%s\t%s\n", doc.Use, doc.Short)
				continue
			}
			fmt.Fprintln(w, name)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
