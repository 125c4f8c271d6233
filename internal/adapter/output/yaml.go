package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// YAMLFormatter formats results as YAML documents.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// FormatResolutions writes resolutions as a YAML sequence.
func (f *YAMLFormatter) FormatResolutions(w io.Writer, resolutions []Resolution) error {
	return f.encode(w, resolutions)
}

// FormatTable writes the table dump.
func (f *YAMLFormatter) FormatTable(w io.Writer, dump TableDump) error {
	return f.encode(w, dump)
}

// FormatThemes writes themes as a YAML sequence.
func (f *YAMLFormatter) FormatThemes(w io.Writer, themes []theme.Source) error {
	return f.encode(w, themes)
}

func (f *YAMLFormatter) encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
