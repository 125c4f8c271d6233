package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Source describes where a theme's declarations were read from.
type Source struct {
	Theme   string    `json:"theme" yaml:"theme"`
	Path    string    `json:"path" yaml:"path"` // file path; empty for bundled themes
	Bundled bool      `json:"bundled" yaml:"bundled"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Loader finds a theme's declarations and builds its override table.
type Loader struct {
	logger    *slog.Logger
	themesDir string
	root      string
}

// NewLoader creates a loader that prefers themes under themesDir over the
// bundled ones. root is the deployment root substituted for {root}.
func NewLoader(themesDir, root string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: themesDir,
		root:      root,
	}
}

// ThemesDir returns the directory user themes are read from.
func (l *Loader) ThemesDir() string {
	return l.themesDir
}

// Root returns the configured deployment root, before normalization.
func (l *Loader) Root() string {
	return l.root
}

// Find locates the declarations for name without falling back.
// Resolution order:
//  1. <themesDir>/<name>/theme.{yaml,yml,toml}
//  2. bundled themes
//
// A user directory can therefore replace a bundled theme of the same name.
func (l *Loader) Find(name string) (Source, error) {
	name = NormalizeThemeName(name)
	if HasParentSegment(name) {
		return Source{}, fmt.Errorf("%w: %q", ErrPathTraversalRejected, name)
	}

	if l.themesDir != "" {
		for _, file := range DeclarationFiles {
			p := filepath.Join(l.themesDir, name, file)
			info, err := os.Stat(p)
			if err == nil && !info.IsDir() {
				return Source{Theme: name, Path: p, ModTime: info.ModTime()}, nil
			}
		}
	}

	if IsEmbeddedTheme(name) {
		return Source{Theme: name, Bundled: true}, nil
	}
	return Source{}, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}

// LoadStrict builds the table for name and fails if the theme cannot be found.
func (l *Loader) LoadStrict(name string) (*OverrideTable, Source, error) {
	src, err := l.Find(name)
	if err != nil {
		return nil, Source{}, err
	}
	table, err := l.build(src)
	if err != nil {
		return nil, src, err
	}
	return table, src, nil
}

// Load builds the table for name. An unknown theme falls back to the bundled
// default theme with a warning. Malformed declarations are returned as errors
// so that a broken theme never activates half-built.
func (l *Loader) Load(name string) (*OverrideTable, Source, error) {
	table, src, err := l.LoadStrict(name)
	if err == nil {
		l.logger.Info("loaded theme", "name", src.Theme, "bundled", src.Bundled, "path", src.Path, "overrides", table.Len())
		return table, src, nil
	}
	if !errors.Is(err, ErrThemeNotFound) {
		return nil, src, err
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	table, src, err = l.LoadStrict(DefaultThemeName)
	if err != nil {
		return nil, src, err
	}
	return table, src, nil
}

func (l *Loader) build(src Source) (*OverrideTable, error) {
	vars := Vars{Root: l.root, Theme: src.Theme}

	var (
		entries []Entry
		err     error
	)
	if src.Bundled {
		data, _ := GetEmbeddedDeclarations(src.Theme)
		entries, err = ParseDeclarations(".yaml", data, vars)
		if err != nil {
			err = fmt.Errorf("bundled theme %s: %w", src.Theme, err)
		}
	} else {
		entries, err = LoadDeclarations(src.Path, vars)
	}
	if err != nil {
		return nil, err
	}

	table, err := BuildThemeTable(src.Theme, entries)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", src.Theme, err)
	}
	for _, s := range table.Shadowed {
		l.logger.Debug("override shadowed by later declaration", "theme", src.Theme, "key", s.Key, "path", s.OverridePath)
	}
	return table, nil
}

// ListThemes returns bundled and user themes without duplicates, sorted by
// name. A user theme that shares a bundled theme's name replaces it.
func (l *Loader) ListThemes() ([]Source, error) {
	byName := make(map[string]Source)
	for _, name := range ListEmbeddedThemes() {
		byName[name] = Source{Theme: name, Bundled: true}
	}

	var readErr error
	if l.themesDir != "" {
		entries, err := os.ReadDir(l.themesDir)
		switch {
		case err == nil:
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				if src, err := l.Find(entry.Name()); err == nil && !src.Bundled {
					byName[entry.Name()] = src
				}
			}
		case !os.IsNotExist(err):
			readErr = err
		}
	}

	themes := make([]Source, 0, len(byName))
	for _, src := range byName {
		themes = append(themes, src)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Theme < themes[j].Theme })
	return themes, readErr
}

// CreateThemeDir creates <themesDir>/<name> if it doesn't exist. The name
// must be a single path element.
func (l *Loader) CreateThemeDir(name string) (string, error) {
	if l.themesDir == "" {
		return "", errors.New("no themes directory configured")
	}
	name = NormalizeThemeName(name)
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	dir, err := ComposeThemeRoot(l.themesDir, name)
	if err != nil {
		return "", err
	}
	return dir, os.MkdirAll(dir, 0755)
}
