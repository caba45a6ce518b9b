package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toreleon/portfolio/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}
		if err := config.DefaultConfig().Save(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
