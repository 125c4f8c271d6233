package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/skinmap/internal/adapter/output"
	"github.com/jmylchreest/skinmap/internal/theme"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

type fixture struct {
	dir    string
	static string
	table  *theme.OverrideTable
	active *theme.Active
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	static := filepath.Join(dir, "src")

	writeFile(t, filepath.Join(static, "js", "models", "Search.js"), "search model")
	writeFile(t, filepath.Join(static, "js", "templates", "navbar.html"), "default navbar")
	writeFile(t, filepath.Join(static, "js", "templates", "footer.html"), "default footer")
	writeFile(t, filepath.Join(static, "js", "themes", "knb", "templates", "navbar.html"), "knb navbar")
	writeFile(t, filepath.Join(static, "config", "config.js"), "deployed config")
	writeFile(t, filepath.Join(dir, "alt-config.js"), "replacement config")

	table, err := theme.BuildThemeTable("knb", []theme.Entry{
		{Key: "templates/navbar.html", OverridePath: "/metacatui/js/themes/knb/templates/navbar.html"},
		{Key: "templates/footer.html", OverridePath: "/metacatui/js/themes/knb/templates/footer.html"},
	})
	require.NoError(t, err)

	return &fixture{dir: dir, static: static, table: table, active: theme.NewActive(table)}
}

func (f *fixture) server(t *testing.T, mutate func(*Options)) *Server {
	t.Helper()
	opts := Options{Root: "/metacatui", StaticDir: f.static, LogLevel: "off"}
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := New(f.active, theme.NewLoader("", "/metacatui", quietLogger()), opts, quietLogger())
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestThemed_ServesOverride(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, nil), "/themed/text!templates/navbar.html")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "knb navbar", rec.Body.String())
	assert.Equal(t, "knb", rec.Header().Get(HeaderTheme))
	assert.Equal(t, f.table.Generation.String(), rec.Header().Get(HeaderGeneration))
}

func TestThemed_ServesDefaultForAbsentKey(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, nil), "/themed/models/Search")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search model", rec.Body.String())
}

func TestThemed_MissingOverride(t *testing.T) {
	tests := []struct {
		name     string
		fallback bool
		wantCode int
		wantBody string
	}{
		{"without fallback", false, http.StatusNotFound, ""},
		{"with fallback", true, http.StatusOK, "default footer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			srv := f.server(t, func(o *Options) { o.Fallback = tt.fallback })
			rec := get(t, srv, "/themed/text!templates/footer.html")

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			assert.Equal(t, CodeResourceNotFound, decodeError(t, rec).Code)
		})
	}
}

func TestThemed_DottedModuleID(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.static, "js", "components", "jquery.form.js"), "form plugin")

	rec := get(t, f.server(t, nil), "/themed/components/jquery.form")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "form plugin", rec.Body.String())
}

func TestLocalFile_StaticDirAtFilesystemRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "navbar.html")
	writeFile(t, file, "navbar")

	srv := &Server{opts: Options{StaticDir: "/"}, root: ""}

	got, err := srv.localFile(filepath.ToSlash(file))
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = srv.localFile("/js/../../etc/passwd")
	assert.ErrorIs(t, err, theme.ErrPathTraversalRejected)
}

func TestThemed_MissingDefault(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, func(o *Options) { o.Fallback = true }), "/themed/views/Nowhere")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeResourceNotFound, decodeError(t, rec).Code)
}

func TestThemed_RejectsTraversalOverride(t *testing.T) {
	f := newFixture(t)
	table, err := theme.BuildThemeTable("knb", []theme.Entry{
		{Key: "secret", OverridePath: "/metacatui/js/../../alt-config.js"},
	})
	require.NoError(t, err)
	f.active.Swap(table)

	rec := get(t, f.server(t, nil), "/themed/secret")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodePathTraversal, decodeError(t, rec).Code)
}

func TestAPIResolve(t *testing.T) {
	f := newFixture(t)
	srv := f.server(t, nil)

	tests := []struct {
		name   string
		target string
		want   output.Resolution
	}{
		{
			name:   "override",
			target: "/api/resolve?key=templates/navbar.html",
			want: output.Resolution{Key: "templates/navbar.html", ResolvedResource: theme.ResolvedResource{
				Path: "/metacatui/js/themes/knb/templates/navbar.html", Overridden: true,
			}},
		},
		{
			name:   "explicit default",
			target: "/api/resolve?key=models/Search&default=/x/Search.js",
			want:   output.Resolution{Key: "models/Search", ResolvedResource: theme.ResolvedResource{Path: "/x/Search.js"}},
		},
		{
			name:   "module path default",
			target: "/api/resolve?key=models/Search",
			want:   output.Resolution{Key: "models/Search", ResolvedResource: theme.ResolvedResource{Path: "/metacatui/js/models/Search.js"}},
		},
		{
			name:   "dotted module id",
			target: "/api/resolve?key=views/jquery.fancybox.pack",
			want: output.Resolution{Key: "views/jquery.fancybox.pack", ResolvedResource: theme.ResolvedResource{
				Path: "/metacatui/js/views/jquery.fancybox.pack.js",
			}},
		},
		{
			name:   "plugin id",
			target: "/api/resolve?key=text!templates/navbar.html",
			want: output.Resolution{Key: "text!templates/navbar.html", ResolvedResource: theme.ResolvedResource{
				Path: "/metacatui/js/themes/knb/templates/navbar.html", Overridden: true,
			}},
		},
		{
			name:   "other theme",
			target: "/api/resolve?key=templates/navbar.html&theme=arctic&default=d.html",
			want:   output.Resolution{Key: "templates/navbar.html", ResolvedResource: theme.ResolvedResource{Path: "d.html"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)

			var got output.Resolution
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIResolve_MissingKey(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, nil), "/api/resolve")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, rec).Code)
}

func TestAPITable(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, nil), "/api/table")
	require.Equal(t, http.StatusOK, rec.Code)

	var dump output.TableDump
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dump))
	assert.Equal(t, "knb", dump.Theme)
	assert.Equal(t, f.table.Generation.String(), dump.Generation)
	assert.Len(t, dump.Overrides, 2)
}

func TestAPIThemes(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server(t, nil), "/api/themes")
	require.Equal(t, http.StatusOK, rec.Code)

	var themes []theme.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &themes))

	var names []string
	for _, s := range themes {
		names = append(names, s.Theme)
	}
	assert.Contains(t, names, "arctic")
	assert.Contains(t, names, "default")
}

func TestConfigSubstitution(t *testing.T) {
	f := newFixture(t)

	rec := get(t, f.server(t, nil), "/metacatui/config/config.js")
	assert.Equal(t, "deployed config", rec.Body.String())

	srv := f.server(t, func(o *Options) { o.ConfigFile = filepath.Join(f.dir, "alt-config.js") })
	rec = get(t, srv, "/metacatui/config/config.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "replacement config", rec.Body.String())
}

func TestStaticTrees(t *testing.T) {
	f := newFixture(t)
	srv := f.server(t, nil)

	rec := get(t, srv, "/metacatui/js/models/Search.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search model", rec.Body.String())

	rec = get(t, srv, "/metacatui/js/models/Missing.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeResourceNotFound, decodeError(t, rec).Code)
}

func TestSwapIsVisibleToRequests(t *testing.T) {
	f := newFixture(t)
	srv := f.server(t, nil)

	next, err := theme.BuildThemeTable("plain", nil)
	require.NoError(t, err)
	prev := f.active.Swap(next)
	assert.Same(t, f.table, prev)

	rec := get(t, srv, "/themed/text!templates/navbar.html")
	assert.Equal(t, "default navbar", rec.Body.String())
	assert.Equal(t, "plain", rec.Header().Get(HeaderTheme))
	assert.Equal(t, next.Generation.String(), rec.Header().Get(HeaderGeneration))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil, Options{StaticDir: t.TempDir()}, nil)
	assert.Error(t, err)

	_, err = New(theme.NewActive(nil), nil, Options{StaticDir: filepath.Join(t.TempDir(), "absent")}, nil)
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	srv := f.server(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0", 5*time.Second) }()

	require.Eventually(t, func() bool { return srv.echo.ListenerAddr() != nil }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
