package handler

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/easy-books/easy-books-server/internal/api/rest/respond"
	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
)

// writeError renders err for the client. Server-side failures are logged with
// the underlying cause, which never reaches the response body.
func writeError(w http.ResponseWriter, r *http.Request, logger *logger.Logger, err error) {
	status := http.StatusInternalServerError
	if apiErr, ok := apierrors.As(err); ok {
		status = apiErr.HTTPCode
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err.Error())
	}

	respond.Error(w, err)
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, apierrors.NewErrRouteNotFound())
}

// MethodNotAllowed answers requests whose route exists under another method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, apierrors.NewErrMethodNotAllowed())
}
