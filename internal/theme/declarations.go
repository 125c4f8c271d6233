package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Declaration file names looked up in a theme directory, in order.
var DeclarationFiles = []string{"theme.yaml", "theme.yml", "theme.toml"}

// Vars are substituted into override paths: {root} and {theme}.
type Vars struct {
	Root  string
	Theme string
}

func (v Vars) expand(s string) string {
	return strings.NewReplacer("{root}", NormalizeRoot(v.Root), "{theme}", v.Theme).Replace(s)
}

// tomlDeclarations is the TOML form: an ordered [[override]] array.
type tomlDeclarations struct {
	Override []Entry `toml:"override"`
}

// LoadDeclarations reads a declaration file and returns its entries in
// declaration order with placeholders expanded.
func LoadDeclarations(path string, vars Vars) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ParseDeclarations(filepath.Ext(path), data, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseDeclarations parses declaration data in the format named by ext
// (".yaml", ".yml" or ".toml").
func ParseDeclarations(ext string, data []byte, vars Vars) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		entries, err = parseYAMLDeclarations(data)
	case ".toml":
		var decl tomlDeclarations
		if err = toml.Unmarshal(data, &decl); err == nil {
			entries = decl.Override
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].OverridePath = vars.expand(entries[i].OverridePath)
	}
	return entries, nil
}

// parseYAMLDeclarations walks the document node by node so that repeated
// keys survive in order; decoding into a map would reject them.
//
//	"*":
//	  templates/navbar.html: "{root}/js/themes/{theme}/templates/navbar.html"
func parseYAMLDeclarations(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	top := doc.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return nil, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of groups", ErrInvalidConfigEntry, top.Line)
	}

	var entries []Entry
	for i := 0; i+1 < len(top.Content); i += 2 {
		group, body := top.Content[i], top.Content[i+1]
		if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
			continue
		}
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: line %d: group %q must be a mapping", ErrInvalidConfigEntry, body.Line, group.Value)
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			k, v := body.Content[j], body.Content[j+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: override in group %q must map a key to a path", ErrInvalidConfigEntry, k.Line, group.Value)
			}
			value := v.Value
			if v.Tag == "!!null" {
				value = ""
			}
			entries = append(entries, Entry{Key: k.Value, OverridePath: value})
		}
	}
	return entries, nil
}
