package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tourismcms/tourism-cms/internal/auth"
)

// RequireRoles creates a middleware that checks if the user holds one of the
// given roles.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			hasRole := false
			for _, required := range roles {
				if user.Role == required {
					hasRole = true
					break
				}
			}

			if !hasRole {
				slog.Warn("Access denied: user lacks required role",
					"user_id", user.ID,
					"required_roles", roles,
					"user_role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
