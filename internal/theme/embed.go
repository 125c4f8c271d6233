package theme

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

// EmbeddedThemes contains the declaration files of the bundled themes.
//
//go:embed themes/*/theme.yaml
var EmbeddedThemes embed.FS

// GetEmbeddedDeclarations returns the raw declaration file of a bundled
// theme and whether it was found.
func GetEmbeddedDeclarations(name string) ([]byte, bool) {
	if name == "" || HasParentSegment(name) {
		return nil, false
	}
	data, err := EmbeddedThemes.ReadFile(embeddedPath(name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedThemes returns the names of all bundled themes, sorted.
func ListEmbeddedThemes() []string {
	var themes []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(EmbeddedThemes, embeddedPath(entry.Name())); err == nil {
			themes = append(themes, entry.Name())
		}
	}
	sort.Strings(themes)
	return themes
}

// IsEmbeddedTheme reports whether name is a bundled theme.
func IsEmbeddedTheme(name string) bool {
	_, found := GetEmbeddedDeclarations(name)
	return found
}

func embeddedPath(name string) string {
	return path.Join("themes", name, "theme.yaml")
}
