package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-scheduling-service/pkg/response"

	"github.com/google/uuid"
)

const TenantHeader = "X-Tenant-ID"

// RequireTenant resolves the tenant of the request, preferring the tenant bound to the
// access token over the X-Tenant-ID header. A header naming another tenant than the
// token is rejected.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get(TenantHeader))
		claimTenant, fromClaim := r.Context().Value(ClaimTenantKey).(uuid.UUID)

		var tenantID uuid.UUID
		switch {
		case fromClaim:
			if header != "" {
				headerTenant, err := uuid.Parse(header)
				if err != nil || headerTenant != claimTenant {
					response.Forbidden(w, "Tenant does not match access token")
					return
				}
			}
			tenantID = claimTenant
		case header != "":
			parsed, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(w, "Invalid tenant identifier")
				return
			}
			tenantID = parsed
		default:
			response.BadRequest(w, "Tenant identifier is required")
			return
		}

		ctx := context.WithValue(r.Context(), TenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantIDFromContext extracts the resolved tenant ID from context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}
