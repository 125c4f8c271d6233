package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/theme"
)

var composeCmd = &cobra.Command{
	Use:   "compose <theme> [relative-path]",
	Short: "Compose a path under a theme's root directory",
	Long: `Join a theme's root directory with a path relative to it.

Paths containing a ".." segment are rejected.

Example:
  skinmap compose knb templates/navbar.html`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rel := ""
		if len(args) > 1 {
			rel = args[1]
		}
		p, err := theme.ComposeThemeRoot(args[0], rel)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)
}
