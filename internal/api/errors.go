package api

import (
	"errors"
	"net/http"

	"icare/internal/domain"
	"icare/internal/middleware"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var (
		unauth       *domain.UnauthenticatedError
		notFound     *domain.NotFoundError
		referential  *domain.ReferentialError
		accessDenied *domain.AccessDeniedError
		validation   *domain.ValidationError
		conflict     *domain.ConflictError
	)

	switch {
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.As(err, &referential):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError renders err. Unclassified errors are logged with the request
// id and reported with a generic message.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatusFromDomainError(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		msg = "internal server error"
	}
	writeJSON(w, code, Error{Code: code, Message: msg})
}
