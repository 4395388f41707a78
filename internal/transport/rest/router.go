package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/tourismcms/tourism-cms/internal/auth"
	"github.com/tourismcms/tourism-cms/internal/content"
	"github.com/tourismcms/tourism-cms/internal/navigation"
	"github.com/tourismcms/tourism-cms/internal/transport/middleware"
	"github.com/tourismcms/tourism-cms/internal/transport/swagger"
	"github.com/tourismcms/tourism-cms/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sqlxDB *sqlx.DB, authHandler *auth.Handler, userHandler *user.Handler, navHandler *navigation.Handler, contentHandler *content.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	rbac := auth.NewRBACAuthorization(auth.NewRoleChecker(), logger)
	ownership := &auth.OwnershipPolicy{}

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.UserContext)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Public navigation tree; an optional token upgrades the view from
		// anonymous to the caller's role.
		if navHandler != nil && authHandler != nil {
			r.With(authHandler.OptionalAuthMiddleware).
				Get("/navigation", navHandler.GetNavigation)
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Sidebar session routes, open to every CMS role
				if navHandler != nil {
					pr.Route("/sidebar", func(sr chi.Router) {
						sr.Use(middleware.RequireRoles(auth.RoleAdmin, auth.RoleEditor, auth.RoleViewer))
						sr.Get("/", navHandler.GetSidebar)
						sr.Post("/expand", navHandler.ExpandSection)
						sr.Post("/collapse", navHandler.CollapseSection)
						sr.Post("/toggle", navHandler.ToggleSection)
						sr.Post("/navigate", navHandler.NavigateToSection)
					})

					// Badge routes for editors and admins
					pr.Group(func(br chi.Router) {
						br.Use(rbac.RequireBadgeEditor())
						br.Put("/navigation/{id}/badge", navHandler.SetBadge)
						br.Delete("/navigation/{id}/badge", navHandler.ClearBadge)
					})

					// Admin navigation management
					pr.Route("/admin/navigation", func(ar chi.Router) {
						ar.Use(rbac.RequireNavigationManager())
						ar.Post("/", navHandler.CreateItem)
						ar.Put("/{id}", navHandler.UpdateItem)
						ar.Delete("/{id}", navHandler.DeleteItem)
					})
				}

				// Content routes
				if contentHandler != nil {
					pr.Route("/content", func(cr chi.Router) {
						cr.Get("/sections/{sectionID}", contentHandler.ListContent)
						cr.Get("/{id}", contentHandler.GetContent)

						cr.Group(func(er chi.Router) {
							er.Use(rbac.RequireContentEditor())
							er.Post("/", contentHandler.CreateContent)
						})

						// Author-or-admin edits on existing rows
						cr.Group(func(er chi.Router) {
							er.Use(rbac.RequireContentEditor())
							er.Use(auth.RequireCanModifyContent(sqlxDB, ownership))
							er.Put("/{id}", contentHandler.UpdateContent)
							er.Patch("/{id}/submit", contentHandler.SubmitContent)
						})

						cr.Group(func(mr chi.Router) {
							mr.Use(rbac.RequirePublisher())
							mr.Patch("/{id}/publish", contentHandler.PublishContent)
							mr.Patch("/{id}/reject", contentHandler.RejectContent)
							mr.Patch("/{id}/archive", contentHandler.ArchiveContent)
						})
					})
				}
			})
		}
	})
}
