package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/adapter/output"
)

var listOpts struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the overrides of the active theme",
	Long: `List every effective override of the configured theme, sorted by key.

Entries replaced by a later declaration of the same key are listed
separately as shadowed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}

	table, _, err := newLoader().Load(cfg.Theme)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, output.DefaultFormatterOptions()).
		FormatTable(os.Stdout, output.NewTableDump(table))
}
