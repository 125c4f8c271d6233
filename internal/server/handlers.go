package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jmylchreest/skinmap/internal/adapter/output"
	"github.com/jmylchreest/skinmap/internal/theme"
)

// handleResolve answers GET /api/resolve?key=&default=&theme=.
// key is a loader id; without a default, its conventional path under Root
// is used.
func (s *Server) handleResolve(c echo.Context) error {
	id := c.QueryParam("key")
	_, key := theme.SplitModuleID(id)
	if strings.TrimSpace(key) == "" {
		return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, errors.New("query parameter key is required"))
	}

	defaultPath := c.QueryParam("default")
	if defaultPath == "" {
		defaultPath = theme.ModulePath(s.opts.Root, id)
	}

	res := s.active.ResolveRequest(theme.ResourceRequest{
		Key:   key,
		Theme: c.QueryParam("theme"),
	}, defaultPath)
	return c.JSON(http.StatusOK, output.Resolution{Key: id, ResolvedResource: res})
}

func (s *Server) handleThemes(c echo.Context) error {
	if s.loader == nil {
		return c.JSON(http.StatusOK, []theme.Source{})
	}
	themes, err := s.loader.ListThemes()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themes)
}

func (s *Server) handleTable(c echo.Context) error {
	dump := output.NewTableDump(s.active.Load())
	if dump.Overrides == nil {
		dump.Overrides = []theme.Entry{}
	}
	return c.JSON(http.StatusOK, dump)
}

// handleThemed serves GET /themed/<id>: the loader id is resolved through
// the active table and the file behind the resulting path is sent.
// Templates and other plugin resources are requested as text!<key>.
func (s *Server) handleThemed(c echo.Context) error {
	id := c.Param("*")
	_, key := theme.SplitModuleID(id)
	if key == "" {
		return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, errors.New("resource key is required"))
	}

	defaultPath := theme.ModulePath(s.opts.Root, id)
	res := s.active.Resolve(key, defaultPath)

	file, err := s.localFile(res.Path)
	if err == nil {
		return c.File(file)
	}
	if !res.Overridden || !s.opts.Fallback || !errors.Is(err, ErrResourceNotFound) {
		return err
	}

	s.logger.Warn("theme override missing, serving default",
		"key", key,
		"override", res.Path,
		"default", defaultPath,
	)
	file, err = s.localFile(defaultPath)
	if err != nil {
		return err
	}
	return c.File(file)
}

// localFile maps a path under Root onto a regular file in StaticDir.
func (s *Server) localFile(resolved string) (string, error) {
	rel := resolved
	if s.root != "" {
		if !strings.HasPrefix(resolved, s.root+"/") {
			return "", fmt.Errorf("%w: %s is outside %s", ErrResourceNotFound, resolved, s.root)
		}
		rel = strings.TrimPrefix(resolved, s.root)
	}

	if theme.HasParentSegment(rel) {
		return "", fmt.Errorf("%w: %s", theme.ErrPathTraversalRejected, resolved)
	}
	file := filepath.Join(s.opts.StaticDir, filepath.FromSlash(rel))

	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, resolved)
	}
	return file, nil
}
