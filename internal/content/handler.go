package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/tourismcms/tourism-cms/internal/auth"
	"github.com/tourismcms/tourism-cms/internal/transport"
	"github.com/tourismcms/tourism-cms/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, authorID int64, dto CreateContentDTO) (*Content, error)
	GetByID(ctx context.Context, id int64) (*Content, error)
	ListBySection(ctx context.Context, sectionID, status string) ([]*Content, int64, error)
	Update(ctx context.Context, id int64, dto UpdateContentDTO) (*Content, error)
	SubmitForReview(ctx context.Context, id int64) (*Content, error)
	Publish(ctx context.Context, id int64) (*Content, error)
	Reject(ctx context.Context, id int64) (*Content, error)
	Archive(ctx context.Context, id int64) (*Content, error)
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

func (h *Handler) contentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid content id")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateContentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateContent: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contentID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// ListContent serves content for one section. Anonymous and viewer traffic
// only sees published items; editors and admins may filter by any status.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	status := r.URL.Query().Get("status")

	user, _ := auth.UserFromContext(r.Context())
	if user == nil || (!user.IsAdmin() && !user.IsEditor()) {
		status = StatusPublished
	}

	items, total, err := h.Service.ListBySection(r.Context(), sectionID, status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if items == nil {
		items = []*Content{}
	}

	h.WriteJSON(w, http.StatusOK, ContentListResponse{Items: items, Total: total})
}

func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contentID(w, r)
	if !ok {
		return
	}

	var dto UpdateContentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateContent: service error", "error", err, "content_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id int64) (*Content, error)) {
	id, ok := h.contentID(w, r)
	if !ok {
		return
	}

	c, err := op(r.Context(), id)
	if err != nil {
		h.Logger.Error("content transition failed", "error", err, "content_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.SubmitForReview)
}

func (h *Handler) PublishContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Publish)
}

func (h *Handler) RejectContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Reject)
}

func (h *Handler) ArchiveContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Archive)
}
