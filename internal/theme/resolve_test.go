package theme

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_EndToEnd(t *testing.T) {
	table, err := BuildOverrideTable([]Entry{
		{Key: "templates/navbar.html", OverridePath: "themes/knb/templates/navbar.html"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		ResolvedResource{Path: "themes/knb/templates/navbar.html", Overridden: true},
		Resolve(table, "templates/navbar.html", "templates/navbar.html"))
	assert.Equal(t,
		ResolvedResource{Path: "templates/footer.html", Overridden: false},
		Resolve(table, "templates/footer.html", "templates/footer.html"))
}

func TestResolve_AbsentKeysUseDefault(t *testing.T) {
	table, err := BuildOverrideTable([]Entry{{Key: "a", OverridePath: "A"}})
	require.NoError(t, err)

	for _, key := range []string{"b", "", "A", "a/", "templates/a"} {
		assert.Equal(t, ResolvedResource{Path: "default"}, Resolve(table, key, "default"), "key %q", key)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	table, err := BuildOverrideTable([]Entry{{Key: "a", OverridePath: "A"}})
	require.NoError(t, err)

	for _, key := range []string{"a", "b"} {
		assert.Equal(t, Resolve(table, key, "d"), Resolve(table, key, "d"))
	}
}

func TestResolve_NilTable(t *testing.T) {
	assert.Equal(t, ResolvedResource{Path: "d"}, Resolve(nil, "a", "d"))
}

func TestResolve_ConcurrentReaders(t *testing.T) {
	table, err := BuildOverrideTable([]Entry{{Key: "a", OverridePath: "A"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if Resolve(table, "a", "d").Path != "A" {
					t.Error("unexpected resolution")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestModulePath(t *testing.T) {
	tests := []struct {
		root string
		key  string
		want string
	}{
		{"/metacatui", "models/AppModel", "/metacatui/js/models/AppModel.js"},
		{"/metacatui/", "text!templates/navbar.html", "/metacatui/js/templates/navbar.html"},
		{"/metacatui", "components/jquery.form", "/metacatui/js/components/jquery.form.js"},
		{"/metacatui", "views/jquery.fancybox.pack", "/metacatui/js/views/jquery.fancybox.pack.js"},
		{"/metacatui", "components/require.js", "/metacatui/js/components/require.js"},
		{"/metacatui", "templates/navbar.html", "/metacatui/js/templates/navbar.html.js"},
		{"", "routers/router", "/metacatui/js/routers/router.js"},
		{"/", "views/AppView", "/js/views/AppView.js"},
		{"/catalog", "/components/require.js", "/components/require.js"},
		{"/catalog", "https://cdn.example.org/lib.js", "https://cdn.example.org/lib.js"},
	}

	for _, tt := range tests {
		t.Run(tt.root+"|"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ModulePath(tt.root, tt.key))
		})
	}
}

func TestResolveModule_PluginPrefix(t *testing.T) {
	table, err := BuildOverrideTable([]Entry{
		{Key: "templates/navbar.html", OverridePath: "/catalog/js/themes/arctic/templates/navbar.html"},
		{Key: "models/Map", OverridePath: "/catalog/js/themes/arctic/models/Map.js"},
	})
	require.NoError(t, err)

	tests := []struct {
		id   string
		want ResolvedResource
	}{
		{"text!templates/navbar.html", ResolvedResource{Path: "text!/catalog/js/themes/arctic/templates/navbar.html", Overridden: true}},
		{"text!templates/footer.html", ResolvedResource{Path: "text!/catalog/js/templates/footer.html"}},
		{"models/Map", ResolvedResource{Path: "/catalog/js/themes/arctic/models/Map.js", Overridden: true}},
		{"models/Search", ResolvedResource{Path: "/catalog/js/models/Search.js"}},
		{"views/jquery.fancybox.pack", ResolvedResource{Path: "/catalog/js/views/jquery.fancybox.pack.js"}},
		{"components/bootstrap.min.js", ResolvedResource{Path: "/catalog/js/components/bootstrap.min.js"}},
		{"text!templates/metadata.v2.html", ResolvedResource{Path: "text!/catalog/js/templates/metadata.v2.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveModule(table, tt.id, "/catalog"))
		})
	}
}

func TestSplitModuleID(t *testing.T) {
	plugin, key := SplitModuleID("text!templates/navbar.html")
	assert.Equal(t, "text", plugin)
	assert.Equal(t, "templates/navbar.html", key)

	plugin, key = SplitModuleID("models/AppModel")
	assert.Empty(t, plugin)
	assert.Equal(t, "models/AppModel", key)
}

func TestNormalizeThemeName(t *testing.T) {
	assert.Equal(t, "default", NormalizeThemeName(""))
	assert.Equal(t, "default", NormalizeThemeName("  "))
	assert.Equal(t, "knb", NormalizeThemeName(" knb "))
}

func TestActive_SwapAndResolve(t *testing.T) {
	first, err := BuildThemeTable("knb", []Entry{{Key: "k", OverridePath: "knb/k"}})
	require.NoError(t, err)
	second, err := BuildThemeTable("arctic", []Entry{{Key: "k", OverridePath: "arctic/k"}})
	require.NoError(t, err)

	active := NewActive(first)
	assert.Equal(t, "knb/k", active.Resolve("k", "d").Path)

	prev := active.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, active.Load())
	assert.Equal(t, "arctic/k", active.Resolve("k", "d").Path)

	// the old table is untouched by the swap
	assert.Equal(t, "knb/k", Resolve(prev, "k", "d").Path)
}

func TestActive_ResolveRequest(t *testing.T) {
	table, err := BuildThemeTable("knb", []Entry{{Key: "k", OverridePath: "knb/k"}})
	require.NoError(t, err)
	active := NewActive(table)

	assert.Equal(t, ResolvedResource{Path: "knb/k", Overridden: true}, active.ResolveRequest(ResourceRequest{Key: "k", Theme: "knb"}, "d"))
	assert.Equal(t, ResolvedResource{Path: "knb/k", Overridden: true}, active.ResolveRequest(ResourceRequest{Key: "k"}, "d"))
	assert.Equal(t, ResolvedResource{Path: "d"}, active.ResolveRequest(ResourceRequest{Key: "k", Theme: "arctic"}, "d"))
}

func TestActive_Empty(t *testing.T) {
	active := NewActive(nil)
	assert.Equal(t, ResolvedResource{Path: "d"}, active.Resolve("k", "d"))
}
