package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// OwnershipPolicy decides whether a principal may act on content owned by
// another user. Admins act on anything; editors only on their own drafts.
type OwnershipPolicy struct{}

func (p *OwnershipPolicy) CanModifyContent(u *User, authorID int64) error {
	if u == nil {
		return ErrForbidden
	}
	if u.IsAdmin() {
		return nil
	}
	if u.IsEditor() && u.ID == authorID {
		return nil
	}
	return ErrForbidden
}

// RequireOwnership wraps a handler with an ownership check resolved against
// the authenticated user.
func RequireOwnership(policy *OwnershipPolicy, check func(p *OwnershipPolicy, u *User, r *http.Request) error) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := check(policy, u, r); err != nil {
				if errors.Is(err, ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCanModifyContent builds a middleware that resolves the content's
// author and applies the ownership policy. Missing rows fall through to the
// handler so it can answer 404 instead of 403.
func RequireCanModifyContent(db *sqlx.DB, policy *OwnershipPolicy) func(next http.Handler) http.Handler {
	return RequireOwnership(policy, func(p *OwnershipPolicy, u *User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}

		var authorID int64
		err = db.GetContext(r.Context(), &authorID, "SELECT author_id FROM contents WHERE id=$1", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		return p.CanModifyContent(u, authorID)
	})
}
