package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Long: `build renders every page and asset into the output directory. The
directory is removed and recreated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cfg.OutputDir
		if buildOut != "" {
			out = buildOut
		}
		_, s, err := newSite()
		if err != nil {
			return err
		}
		n, err := s.Export(cmd.Context(), out)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", n, out)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(buildCmd)
}
