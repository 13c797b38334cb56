package cmd

import (
	"log"

	"github.com/josephlewis42/minishell/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes the default shell configuration
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the default configuration to dir, or the current directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(afero.NewOsFs(), dir, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
