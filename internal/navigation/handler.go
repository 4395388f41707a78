package navigation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/tourismcms/tourism-cms/internal/auth"
	"github.com/tourismcms/tourism-cms/internal/transport"
	"github.com/tourismcms/tourism-cms/pkg/logger"
)

type ServiceAPI interface {
	VisibleTree(role UserRole) []*Item
	Sidebar(userID int64, role UserRole) State
	Expand(ctx context.Context, userID int64, role UserRole, sectionID string) State
	Collapse(ctx context.Context, userID int64, role UserRole, sectionID string) State
	Toggle(ctx context.Context, userID int64, role UserRole, sectionID string) State
	Navigate(ctx context.Context, userID int64, role UserRole, sectionID string) (State, error)
	MergeBadge(ctx context.Context, itemID string, badge *Badge) (*Item, error)
	CreateItem(ctx context.Context, dto CreateItemDTO) error
	UpdateItem(ctx context.Context, itemID string, dto UpdateItemDTO) error
	DeleteItem(ctx context.Context, itemID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// viewerRole resolves the caller's role; unauthenticated requests browse as
// the anonymous pseudo-role.
func viewerRole(r *http.Request) UserRole {
	if user, ok := auth.UserFromContext(r.Context()); ok && user != nil {
		return UserRole(user.Role)
	}
	return ""
}

// GetNavigation serves the role-filtered tree, badges applied. Mounted
// outside the auth group so anonymous-visible items still render.
func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	items := h.Service.VisibleTree(viewerRole(r))
	if items == nil {
		items = []*Item{}
	}
	h.WriteJSON(w, http.StatusOK, NavigationResponse{Items: items})
}

func (h *Handler) GetSidebar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	state := h.Service.Sidebar(user.ID, UserRole(user.Role))
	h.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) sidebarOp(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, userID int64, role UserRole, sectionID string) State) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SidebarOpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	state := op(r.Context(), user.ID, UserRole(user.Role), dto.SectionID)
	h.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) ExpandSection(w http.ResponseWriter, r *http.Request) {
	h.sidebarOp(w, r, h.Service.Expand)
}

func (h *Handler) CollapseSection(w http.ResponseWriter, r *http.Request) {
	h.sidebarOp(w, r, h.Service.Collapse)
}

func (h *Handler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	h.sidebarOp(w, r, h.Service.Toggle)
}

func (h *Handler) NavigateToSection(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SidebarOpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	state, err := h.Service.Navigate(r.Context(), user.ID, UserRole(user.Role), dto.SectionID)
	if err != nil {
		h.Logger.Warn("NavigateToSection: invalid target", "section_id", dto.SectionID, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) SetBadge(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	var dto BadgeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	item, err := h.Service.MergeBadge(r.Context(), itemID, dto.ToBadge())
	if err != nil {
		h.Logger.Error("SetBadge: service error", "error", err, "item_id", itemID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) ClearBadge(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	item, err := h.Service.MergeBadge(r.Context(), itemID, nil)
	if err != nil {
		h.Logger.Error("ClearBadge: service error", "error", err, "item_id", itemID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto CreateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.CreateItem(r.Context(), dto); err != nil {
		h.Logger.Error("CreateItem: service error", "error", err, "item_id", dto.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateItem: navigation item created", "item_id", dto.ID)
	h.WriteJSON(w, http.StatusCreated, map[string]string{"id": dto.ID})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	var dto UpdateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.UpdateItem(r.Context(), itemID, dto); err != nil {
		h.Logger.Error("UpdateItem: service error", "error", err, "item_id", itemID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"id": itemID})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	if err := h.Service.DeleteItem(r.Context(), itemID); err != nil {
		h.Logger.Error("DeleteItem: service error", "error", err, "item_id", itemID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
