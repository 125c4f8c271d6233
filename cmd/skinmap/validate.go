package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/skinmap/internal/theme"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// validation is the outcome of checking one theme.
type validation struct {
	Theme  string
	Source theme.Source
	Table  *theme.OverrideTable
	Err    error
}

var validateCmd = &cobra.Command{
	Use:   "validate [theme]",
	Short: "Check a theme's override declarations",
	Long: `Build a theme's override table and report problems.

Unlike the other commands, an unknown theme is an error here rather than
falling back to the default theme. Duplicate keys are reported as warnings:
the last declaration wins. Any invalid entry fails validation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	name := cfg.Theme
	if len(args) > 0 {
		name = args[0]
	}

	v := validation{Theme: theme.NormalizeThemeName(name)}
	v.Table, v.Source, v.Err = newLoader().LoadStrict(name)

	fmt.Fprint(os.Stdout, renderValidation(v))
	if v.Err != nil {
		return fmt.Errorf("theme %s is invalid", v.Theme)
	}
	return nil
}

func renderValidation(v validation) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Theme "+v.Theme) + "\n")

	if v.Err != nil {
		var entryErr *theme.EntryError
		switch {
		case errors.As(v.Err, &entryErr):
			sb.WriteString(errStyle.Render("✗ invalid entry") + "\n")
			sb.WriteString(labelStyle.Render("  index: ") + fmt.Sprint(entryErr.Index) + "\n")
			sb.WriteString(labelStyle.Render("  key:   ") + fmt.Sprintf("%q", entryErr.Key) + "\n")
			sb.WriteString(labelStyle.Render("  field: ") + entryErr.Field + " (" + entryErr.Rule + ")\n")
		case errors.Is(v.Err, theme.ErrThemeNotFound):
			sb.WriteString(errStyle.Render("✗ not found") + "\n")
		default:
			sb.WriteString(errStyle.Render("✗ "+v.Err.Error()) + "\n")
		}
		return sb.String()
	}

	source := "bundled"
	if !v.Source.Bundled {
		source = v.Source.Path
	}
	sb.WriteString(labelStyle.Render("Source: ") + source + "\n")
	sb.WriteString(labelStyle.Render("Overrides: ") + fmt.Sprint(v.Table.Len()) + "\n")

	for _, e := range v.Table.Shadowed {
		winner, _ := v.Table.Lookup(e.Key)
		sb.WriteString(warnStyle.Render("! duplicate key "+e.Key) +
			labelStyle.Render(fmt.Sprintf(" %s replaced by %s", e.OverridePath, winner)) + "\n")
	}

	sb.WriteString(okStyle.Render("✓ valid") + "\n")
	return sb.String()
}
