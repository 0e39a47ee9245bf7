package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/gitfolio/internal/githubapi"
	"github.com/jonathan/gitfolio/internal/pipeline"
)

// HTTPStatus maps the pipeline's fatal conditions to response codes.
// Everything else is a server-side failure.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, githubapi.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, githubapi.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
