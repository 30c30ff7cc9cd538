package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// ErrResponse is the JSON error body returned by all handlers
type ErrResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors to HTTP status codes and renders a JSON
// error body. Unknown errors become 500 and are logged with detail; the
// client only sees a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var status int
	message := err.Error()

	switch {
	case blog.IsValidation(err),
		errors.Is(err, blog.ErrInvalidCredentials),
		errors.Is(err, blog.ErrEmailTaken),
		errors.Is(err, blog.ErrPayloadTooLarge):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, blog.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, blog.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, blog.ErrPostNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: message})
}
