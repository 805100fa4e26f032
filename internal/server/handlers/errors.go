package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/server/middleware"
)

// writeError maps application errors onto HTTP status codes and writes
// the JSON error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *apperrors.NotFoundError
		gateway  *apperrors.GatewayError
		cacheErr *apperrors.CacheUnavailableError
	)

	switch {
	case errors.As(err, &notFound):
		middleware.WriteErrorEnvelope(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &gateway):
		status := http.StatusBadGateway
		if gateway.Transient {
			status = http.StatusServiceUnavailable
		}
		middleware.WriteErrorEnvelope(w, r, status, "upstream_error", err.Error())
	case errors.As(err, &cacheErr):
		middleware.WriteErrorEnvelope(w, r, http.StatusServiceUnavailable, "cache_unavailable", err.Error())
	case errors.Is(err, errBadRequest):
		middleware.WriteErrorEnvelope(w, r, http.StatusBadRequest, "bad_request", err.Error())
	default:
		middleware.WriteErrorEnvelope(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// errBadRequest marks request validation failures for the adapter.
var errBadRequest = errors.New("bad request")

func badRequest(message string) error {
	return &badRequestError{message: message}
}

type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string { return e.message }

func (e *badRequestError) Is(target error) bool { return target == errBadRequest }
