package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/skinmap/internal/theme"
)

func TestRenderValidation_Valid(t *testing.T) {
	table, err := theme.BuildThemeTable("dataone", []theme.Entry{
		{Key: "routers/router", OverridePath: "first.js"},
		{Key: "routers/router", OverridePath: "second.js"},
	})
	require.NoError(t, err)

	out := renderValidation(validation{
		Theme:  "dataone",
		Source: theme.Source{Theme: "dataone", Bundled: true},
		Table:  table,
	})

	assert.Contains(t, out, "Theme dataone")
	assert.Contains(t, out, "bundled")
	assert.Contains(t, out, "duplicate key routers/router")
	assert.Contains(t, out, "first.js replaced by second.js")
	assert.Contains(t, out, "valid")
}

func TestRenderValidation_InvalidEntry(t *testing.T) {
	_, err := theme.BuildThemeTable("broken", []theme.Entry{
		{Key: "ok", OverridePath: "ok.html"},
		{Key: "", OverridePath: "missing.html"},
	})
	require.Error(t, err)

	out := renderValidation(validation{Theme: "broken", Err: fmt.Errorf("theme broken: %w", err)})
	assert.Contains(t, out, "invalid entry")
	assert.Contains(t, out, "index:")
	assert.Contains(t, out, `""`)
}

func TestRenderValidation_NotFound(t *testing.T) {
	out := renderValidation(validation{Theme: "nope", Err: theme.ErrThemeNotFound})
	assert.Contains(t, out, "not found")
}
