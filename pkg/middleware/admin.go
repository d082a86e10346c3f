package middleware

import (
	"log/slog"
	"net/http"

	"speakup/pkg/claims"
	"speakup/pkg/route"
)

// RequireAdmin protects JSON endpoints with the same decision the gate uses
// for admin pages, answering 401/403 instead of redirecting.
func RequireAdmin(roles RoleResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity, authenticated := claims.IdentityFromContext(ctx)

			role := ""
			if authenticated {
				if cached, ok := claims.RoleFromContext(ctx); ok {
					role = cached
				} else {
					log := logger.With("request_id", RequestIDFromContext(ctx))
					role = lookupRole(ctx, roles, identity.ID, log)
					ctx = claims.WithRole(ctx, role)
				}
			}

			switch route.Decide(authenticated, role, route.AdminPath) {
			case route.RedirectLogin:
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			case route.RedirectHome:
				writeJSONError(w, http.StatusForbidden, "forbidden")
			default:
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}
