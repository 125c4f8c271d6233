package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// JSONFormatter formats results as indented JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// FormatResolutions writes resolutions as a JSON array.
func (f *JSONFormatter) FormatResolutions(w io.Writer, resolutions []Resolution) error {
	if resolutions == nil {
		resolutions = []Resolution{}
	}
	return f.encode(w, resolutions)
}

// FormatTable writes the table dump as a JSON object.
func (f *JSONFormatter) FormatTable(w io.Writer, dump TableDump) error {
	if dump.Overrides == nil {
		dump.Overrides = []theme.Entry{}
	}
	return f.encode(w, dump)
}

// FormatThemes writes themes as a JSON array.
func (f *JSONFormatter) FormatThemes(w io.Writer, themes []theme.Source) error {
	if themes == nil {
		themes = []theme.Source{}
	}
	return f.encode(w, themes)
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
