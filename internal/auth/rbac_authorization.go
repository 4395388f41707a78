package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization builds route middleware from role checks. Requests
// without an authenticated principal are rejected before the check runs.
type RBACAuthorization struct {
	checker RoleChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker RoleChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		checker: checker,
		logger:  logger,
	}
}

func (ra *RBACAuthorization) require(check func(role string) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(user.Role) {
				ra.logger.WarnContext(r.Context(), denied,
					"user_id", user.ID,
					"role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require(ra.checker.IsAdmin, "access denied: admin role required")
}

func (ra *RBACAuthorization) RequireNavigationManager() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageNavigation, "access denied: cannot manage navigation")
}

func (ra *RBACAuthorization) RequireBadgeEditor() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageBadges, "access denied: cannot manage badges")
}

func (ra *RBACAuthorization) RequireContentEditor() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageContent, "access denied: cannot manage content")
}

func (ra *RBACAuthorization) RequirePublisher() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanPublishContent, "access denied: cannot publish content")
}
