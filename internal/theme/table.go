package theme

import (
	"crypto/rand"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

// Entry is a single override declaration: the logical resource key and the
// path of the theme-specific replacement.
type Entry struct {
	Key          string `json:"key" yaml:"key" toml:"key" validate:"required,locator"`
	OverridePath string `json:"path" yaml:"path" toml:"path" validate:"required,locator"`
}

// OverrideTable maps resource keys to override paths for one theme.
// A table is never modified after BuildOverrideTable returns it.
type OverrideTable struct {
	Theme      string
	Generation ulid.ULID
	BuiltAt    time.Time

	// Shadowed holds entries that were replaced by a later entry with the
	// same key, in input order.
	Shadowed []Entry

	overrides map[string]string
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func entryValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("locator", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.TrimSpace(s) != "" && !strings.ContainsRune(s, 0)
		})

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		validateInst = v
	})
	return validateInst
}

// BuildOverrideTable builds an anonymous override table from an ordered list
// of entries. See BuildThemeTable.
func BuildOverrideTable(entries []Entry) (*OverrideTable, error) {
	return BuildThemeTable("", entries)
}

// BuildThemeTable validates every entry and builds the table for the named
// theme. The first invalid entry aborts the build with an *EntryError; no
// partial table is returned. When a key is declared more than once the later
// entry wins and the earlier one is recorded in Shadowed.
func BuildThemeTable(themeName string, entries []Entry) (*OverrideTable, error) {
	v := entryValidator()

	overrides := make(map[string]string, len(entries))
	declaredAt := make(map[string]int, len(entries))
	var shadowed []Entry

	for i, e := range entries {
		if err := v.Struct(e); err != nil {
			return nil, toEntryError(i, e, err)
		}
		if prev, ok := declaredAt[e.Key]; ok {
			shadowed = append(shadowed, entries[prev])
		}
		overrides[e.Key] = e.OverridePath
		declaredAt[e.Key] = i
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate table generation: %w", err)
	}

	return &OverrideTable{
		Theme:      themeName,
		Generation: id,
		BuiltAt:    time.Now(),
		Shadowed:   shadowed,
		overrides:  overrides,
	}, nil
}

func toEntryError(index int, e Entry, err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return &EntryError{Index: index, Key: e.Key, Field: ves[0].Field(), Rule: ves[0].Tag()}
	}
	return fmt.Errorf("%w: entry %d: %v", ErrInvalidConfigEntry, index, err)
}

// Lookup returns the override path for key, if the table declares one.
func (t *OverrideTable) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	p, ok := t.overrides[key]
	return p, ok
}

// Len returns the number of distinct keys in the table.
func (t *OverrideTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.overrides)
}

// Entries returns the effective overrides sorted by key.
func (t *OverrideTable) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.overrides))
	for k, p := range t.overrides {
		out = append(out, Entry{Key: k, OverridePath: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
