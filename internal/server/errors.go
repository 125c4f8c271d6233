package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmylchreest/skinmap/internal/theme"
)

// ErrResourceNotFound is returned when a resolved path has no file behind it.
var ErrResourceNotFound = errors.New("resource not found")

// Error codes carried in JSON error bodies.
const (
	CodeResourceNotFound = "resource_not_found"
	CodePathTraversal    = "path_traversal_rejected"
	CodeInvalidRequest   = "invalid_request"
	CodeInternal         = "internal_error"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func newHTTPError(status int, code string, err error) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorBody{Code: code, Reason: err.Error()}).SetInternal(err)
}

// toHTTPError maps domain errors onto HTTP errors. Errors already carrying
// a status pass through unchanged.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, ErrResourceNotFound):
		return newHTTPError(http.StatusNotFound, CodeResourceNotFound, err)
	case errors.Is(err, theme.ErrPathTraversalRejected):
		return newHTTPError(http.StatusBadRequest, CodePathTraversal, err)
	default:
		return newHTTPError(http.StatusInternalServerError, CodeInternal, err)
	}
}
