package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/storyatlas/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize storyatlas with an interactive wizard",
	Long:  `Runs an interactive wizard that writes a .storyatlas.yml config file and, when you do not have one yet, a starter story.yaml to build on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
