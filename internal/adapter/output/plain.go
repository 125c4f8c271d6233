package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// PlainFormatter formats results as aligned plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// FormatResolutions writes one resolution per line.
func (f *PlainFormatter) FormatResolutions(w io.Writer, resolutions []Resolution) error {
	if f.template != nil {
		for _, r := range resolutions {
			if err := f.template.Execute(w, r); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	if f.opts.PathOnly {
		for _, r := range resolutions {
			if _, err := fmt.Fprintln(w, r.Path); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if f.opts.ShowHeader {
		fmt.Fprintln(tw, "KEY\tPATH\tSOURCE")
	}
	for _, r := range resolutions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Key, r.Path, sourceLabel(r.Overridden))
	}
	return tw.Flush()
}

// FormatTable writes the effective overrides followed by shadowed entries.
func (f *PlainFormatter) FormatTable(w io.Writer, dump TableDump) error {
	if f.opts.ShowHeader {
		fmt.Fprintf(w, "# theme %s (%d overrides, generation %s)\n",
			displayTheme(dump.Theme), len(dump.Overrides), dump.Generation)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range dump.Overrides {
		fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.OverridePath)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(dump.Shadowed) == 0 {
		return nil
	}
	fmt.Fprintf(w, "# shadowed by a later declaration\n")
	for _, e := range dump.Shadowed {
		fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.OverridePath)
	}
	return tw.Flush()
}

// FormatThemes writes one theme per line with its origin.
func (f *PlainFormatter) FormatThemes(w io.Writer, themes []theme.Source) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if f.opts.ShowHeader {
		fmt.Fprintln(tw, "THEME\tORIGIN\tMODIFIED")
	}
	for _, s := range themes {
		origin := "bundled"
		if !s.Bundled {
			origin = s.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Theme, origin, relativeTime(s.ModTime))
	}
	return tw.Flush()
}

func sourceLabel(overridden bool) string {
	if overridden {
		return "theme"
	}
	return "default"
}

func displayTheme(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
