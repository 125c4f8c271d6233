// Package server serves a themed catalog's static files, substituting
// theme overrides from the active table.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// Options configures a Server.
type Options struct {
	Root       string // deployment root, e.g. /metacatui
	StaticDir  string // directory whose subdirectories are served under Root
	ConfigFile string // replacement for <Root>/config/config.js, if set
	Fallback   bool   // serve the default resource when an override file is missing
	LogLevel   string // echo logger level
}

// Server is the HTTP front end over an Active table.
type Server struct {
	echo   *echo.Echo
	active *theme.Active
	loader *theme.Loader
	opts   Options
	root   string // normalized Root, used as a URL prefix
	logger *slog.Logger
}

// New builds a server and registers its routes. loader is used for theme
// listings only; lookups always go through active.
func New(active *theme.Active, loader *theme.Loader, opts Options, logger *slog.Logger) (*Server, error) {
	if active == nil {
		return nil, errors.New("server: active table is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	staticDir, err := filepath.Abs(opts.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	opts.StaticDir = staticDir

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	setLogLevel(e, opts.LogLevel)

	s := &Server{
		echo:   e,
		active: active,
		loader: loader,
		opts:   opts,
		root:   theme.NormalizeRoot(opts.Root),
		logger: logger,
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(tableHeaders(active))
	e.Use(requestLog(logger))

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	e := s.echo

	e.GET("/api/resolve", s.handleResolve)
	e.GET("/api/themes", s.handleThemes)
	e.GET("/api/table", s.handleTable)
	e.GET("/themed/*", s.handleThemed)

	if s.opts.ConfigFile != "" {
		configFile := s.opts.ConfigFile
		e.GET(s.root+"/config/config.js", func(c echo.Context) error {
			return c.File(configFile)
		})
	}

	entries, err := os.ReadDir(s.opts.StaticDir)
	if err != nil {
		return fmt.Errorf("read static dir %s: %w", s.opts.StaticDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		prefix := s.root + "/" + entry.Name() + "/"
		e.Static(prefix, filepath.Join(s.opts.StaticDir, entry.Name()))
		s.logger.Debug("serving static tree", "prefix", prefix, "dir", entry.Name())
	}
	return nil
}

// Handler exposes the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	s.logger.Info("server listening", "addr", addr, "root", s.root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleError(err error, c echo.Context) {
	he := toHTTPError(err)
	if he.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request().URL.Path, "error", err)
	}
	if _, ok := he.Message.(ErrorBody); !ok {
		he = echo.NewHTTPError(he.Code, ErrorBody{
			Code:   codeForStatus(he.Code),
			Reason: fmt.Sprint(he.Message),
		})
	}
	s.echo.DefaultHTTPErrorHandler(he, c)
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return CodeResourceNotFound
	case status >= http.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeInvalidRequest
	}
}
