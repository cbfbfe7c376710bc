package handler

import (
	"errors"
	"net/http"
	"strings"

	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/usecase"
	"clinic-scheduling-service/pkg/response"

	"github.com/google/uuid"
)

// writeUsecaseError maps usecase error kinds to status codes. Unexpected errors get an
// opaque message so persistence details never reach the client.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	message := clientMessage(err)
	switch {
	case errors.Is(err, usecase.ErrInvalidSlot):
		response.BadRequest(w, message)
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, message)
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, message)
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, message)
	default:
		response.InternalServerError(w, fallback)
	}
}

// clientMessage drops the kind prefix of a wrapped usecase error.
func clientMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{usecase.ErrValidation, usecase.ErrConflict, usecase.ErrNotFound} {
		if prefix := kind.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func tenantFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		response.BadRequest(w, "Tenant identifier is required")
		return id, false
	}
	return id, true
}
