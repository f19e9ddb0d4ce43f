package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/response"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

// RequireAbility guards next with an (action, resource) check. It must run
// after AuthMiddleware.
func RequireAbility(authz service.AbilityAuthorizer, action, resource string) func(http.Handler) http.Handler {
	required := service.PermissionToken(resource, action)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			err := authz.Authorize(r.Context(), claims, action, resource)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, service.ErrForbidden):
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permission", map[string]string{"required": required})
			default:
				slog.ErrorContext(r.Context(), "authorization failed", "required", required, "error", err)
				response.Error(w, r, http.StatusServiceUnavailable, "AUTHZ_UNAVAILABLE", "authorization temporarily unavailable", nil)
			}
		})
	}
}
