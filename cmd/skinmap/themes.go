package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/adapter/output"
)

var themesOpts struct {
	format string
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List the bundled themes and those found in the themes directory.

A theme in the themes directory replaces a bundled theme of the same name.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().StringVarP(&themesOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

func runThemes(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(themesOpts.format)
	if err != nil {
		return err
	}

	themes, err := newLoader().ListThemes()
	if err != nil {
		return err
	}
	return output.NewFormatter(format, output.DefaultFormatterOptions()).FormatThemes(os.Stdout, themes)
}
