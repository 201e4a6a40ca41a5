package http

import (
	"errors"
	"net/http"

	"moneypilot/internal/log"
	"moneypilot/internal/ports"
	"moneypilot/internal/services"
)

// statusFor maps service and decoding errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Internal failures are logged with their
// cause and reported to the client without it.
func fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentHTTP)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			log.NewFields().WithOperation(operation).WithError(err).ToSlice()...)
		message = "internal server error"
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldStatusCode, status,
			log.FieldError, err)
	}
	_ = ErrorResponse(status, message).Write(w)
}

func respond(w http.ResponseWriter, r *http.Request, b *JSONResponseBuilder) {
	if err := b.Write(w); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).ErrorContext(r.Context(), "Failed to write response",
			log.FieldPath, r.URL.Path, log.FieldError, err)
	}
}
