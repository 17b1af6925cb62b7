package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/middleware"
	"github.com/pandenic/media-review-board/internal/services"
	"github.com/pandenic/media-review-board/internal/validate"
)

// writeErr maps service errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errs, ok := validate.AsErrs(err); ok {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "validation failed", errs)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, httpx.ErrInvalidPage):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "invalid page", nil)
	case errors.Is(err, services.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "you do not have permission to perform this action", nil)
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return false
	}
	return true
}

// idParam reads a numeric path parameter. Anything else cannot name an
// existing row, so it is reported as 404.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return 0, false
	}
	return id, true
}

// writePage parses ?page, runs list over the window and writes the envelope.
func writePage[T any](w http.ResponseWriter, r *http.Request, size int, list func(httpx.Pager) ([]T, int, error)) {
	p, err := httpx.ParsePage(r, size)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	items, total, err := list(p)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := httpx.Build(r, p, total, items)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// MethodNotAllowed answers routes that exist but reject the verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method "+r.Method+" not allowed", nil)
}
