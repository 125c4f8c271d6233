// Package output provides output formatters for resolutions, override
// tables and theme listings.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// Resolution pairs a requested key with its resolved resource.
type Resolution struct {
	Key                    string `json:"key" yaml:"key"`
	theme.ResolvedResource `yaml:",inline"`
}

// TableDump is the serializable view of an override table.
type TableDump struct {
	Theme      string        `json:"theme" yaml:"theme"`
	Generation string        `json:"generation" yaml:"generation"`
	Overrides  []theme.Entry `json:"overrides" yaml:"overrides"`
	Shadowed   []theme.Entry `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

// NewTableDump captures table for output.
func NewTableDump(table *theme.OverrideTable) TableDump {
	if table == nil {
		return TableDump{}
	}
	return TableDump{
		Theme:      table.Theme,
		Generation: table.Generation.String(),
		Overrides:  table.Entries(),
		Shadowed:   table.Shadowed,
	}
}

// Formatter writes skinmap results.
type Formatter interface {
	// FormatResolutions writes one line or record per resolution.
	FormatResolutions(w io.Writer, resolutions []Resolution) error
	// FormatTable writes the effective overrides of a table.
	FormatTable(w io.Writer, dump TableDump) error
	// FormatThemes writes a theme listing.
	FormatThemes(w io.Writer, themes []theme.Source) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(s); f {
	case FormatPlain, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown output format %q (plain, json, yaml)", s)
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for plain resolutions, e.g. "{{.Key}} {{.Path}}"
	ShowHeader bool   // Print column headers in plain output
	PathOnly   bool   // Plain resolutions print only the resolved path
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowHeader: true,
	}
}
