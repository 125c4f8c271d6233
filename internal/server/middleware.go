package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// Response headers identifying the table that served a request.
const (
	HeaderTheme      = "X-Skinmap-Theme"
	HeaderGeneration = "X-Skinmap-Generation"
)

// tableHeaders stamps every response with the active theme and generation.
func tableHeaders(active *theme.Active) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if table := active.Load(); table != nil {
				h := c.Response().Header()
				h.Set(HeaderTheme, table.Theme)
				h.Set(HeaderGeneration, table.Generation.String())
			}
			return next(c)
		}
	}
}

// requestLog logs one line per request once the handler returns.
func requestLog(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)

			req := c.Request()
			status := c.Response().Status
			if err != nil {
				status = toHTTPError(err).Code
			}
			logger.Debug("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration", time.Since(begin),
				"error", err,
			)
			return err
		}
	}
}

// setLogLevel applies a level name to echo's own logger.
func setLogLevel(e *echo.Echo, level string) {
	switch strings.ToLower(level) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "", "warn":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown log level %q, using warn", level)
	}
}
