package navigation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/tourismcms/tourism-cms/internal"
	"github.com/tourismcms/tourism-cms/internal/auth"
)

type stubSidebarService struct {
	tree *Tree
}

func (s *stubSidebarService) state(userID int64, role UserRole) State {
	return s.tree.WithRole(NewState(), role)
}

func (s *stubSidebarService) VisibleTree(role UserRole) []*Item {
	return s.tree.VisibleTree(role)
}

func (s *stubSidebarService) Sidebar(userID int64, role UserRole) State {
	return s.state(userID, role)
}

func (s *stubSidebarService) Expand(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.tree.Expand(s.state(userID, role), sectionID)
}

func (s *stubSidebarService) Collapse(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.tree.Collapse(s.state(userID, role), sectionID)
}

func (s *stubSidebarService) Toggle(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.tree.Toggle(s.state(userID, role), sectionID)
}

func (s *stubSidebarService) Navigate(ctx context.Context, userID int64, role UserRole, sectionID string) (State, error) {
	return s.tree.Navigate(s.state(userID, role), sectionID)
}

func (s *stubSidebarService) MergeBadge(ctx context.Context, itemID string, badge *Badge) (*Item, error) {
	it, ok := s.tree.Item(itemID)
	if !ok {
		return nil, internal.ErrBadgeTargetNotFound
	}
	return MergeBadge(it, badge), nil
}

func (s *stubSidebarService) CreateItem(ctx context.Context, dto CreateItemDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if _, exists := s.tree.Item(dto.ID); exists {
		return internal.NewConflictError("navigation id already in use", internal.ErrCodeDuplicateNavigationID)
	}
	return nil
}

func (s *stubSidebarService) UpdateItem(ctx context.Context, itemID string, dto UpdateItemDTO) error {
	if _, ok := s.tree.Item(itemID); !ok {
		return internal.ErrNavigationItemNotFound
	}
	return nil
}

func (s *stubSidebarService) DeleteItem(ctx context.Context, itemID string) error {
	if _, ok := s.tree.Item(itemID); !ok {
		return internal.ErrNavigationItemNotFound
	}
	return nil
}

var _ = ginkgo.Describe("Navigation Handler", func() {
	var (
		handler *Handler
		router  *chi.Mux
	)

	asUser := func(req *http.Request, id int64, role string) *http.Request {
		u := &auth.User{ID: id, Email: "test@tourism.test", Name: "Test", Role: role}
		return req.WithContext(context.WithValue(req.Context(), auth.ContextUserKey, u))
	}

	ginkgo.BeforeEach(func() {
		handler = NewHandler(&stubSidebarService{tree: mustTree()})

		router = chi.NewRouter()
		router.Get("/navigation", handler.GetNavigation)
		router.Get("/sidebar", handler.GetSidebar)
		router.Post("/sidebar/expand", handler.ExpandSection)
		router.Post("/sidebar/navigate", handler.NavigateToSection)
		router.Put("/navigation/{id}/badge", handler.SetBadge)
		router.Delete("/navigation/{id}/badge", handler.ClearBadge)
		router.Post("/admin/navigation", handler.CreateItem)
		router.Delete("/admin/navigation/{id}", handler.DeleteItem)
	})

	ginkgo.Describe("GET /navigation", func() {
		ginkgo.It("serves only anonymous items without a principal", func() {
			req := httptest.NewRequest(http.MethodGet, "/navigation", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var resp NavigationResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.Items).To(gomega.HaveLen(1))
			gomega.Expect(resp.Items[0].ID).To(gomega.Equal("attractions"))
		})

		ginkgo.It("serves the role-filtered tree for an authenticated viewer", func() {
			req := asUser(httptest.NewRequest(http.MethodGet, "/navigation", nil), 1, "editor")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			var resp NavigationResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(collectIDs(resp.Items)).To(gomega.ContainElement("reports"))
			gomega.Expect(collectIDs(resp.Items)).ToNot(gomega.ContainElement("partners"))
		})
	})

	ginkgo.Describe("GET /sidebar", func() {
		ginkgo.It("rejects requests without a principal", func() {
			req := httptest.NewRequest(http.MethodGet, "/sidebar", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("returns the session state", func() {
			req := asUser(httptest.NewRequest(http.MethodGet, "/sidebar", nil), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var state State
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &state)).To(gomega.Succeed())
			gomega.Expect(state.Role).To(gomega.Equal(UserRole("admin")))
		})
	})

	ginkgo.Describe("POST /sidebar/expand", func() {
		ginkgo.It("expands the requested section", func() {
			body := bytes.NewBufferString(`{"section_id":"reports"}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/sidebar/expand", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var state State
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &state)).To(gomega.Succeed())
			gomega.Expect(state.Expanded).To(gomega.Equal([]string{"reports"}))
		})

		ginkgo.It("rejects an empty section id", func() {
			body := bytes.NewBufferString(`{"section_id":""}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/sidebar/expand", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("rejects malformed bodies", func() {
			body := bytes.NewBufferString(`{`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/sidebar/expand", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("POST /sidebar/navigate", func() {
		ginkgo.It("answers 404 for targets outside the visible tree", func() {
			body := bytes.NewBufferString(`{"section_id":"reports-visitors"}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/sidebar/navigate", body), 1, "viewer")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("navigates a permitted target", func() {
			body := bytes.NewBufferString(`{"section_id":"reports-visitors"}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/sidebar/navigate", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var state State
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &state)).To(gomega.Succeed())
			gomega.Expect(state.Active).To(gomega.Equal("reports-visitors"))
			gomega.Expect(state.Expanded).To(gomega.Equal([]string{"reports"}))
		})
	})

	ginkgo.Describe("badge endpoints", func() {
		ginkgo.It("merges a badge", func() {
			body := bytes.NewBufferString(`{"count":4,"type":"warning"}`)
			req := asUser(httptest.NewRequest(http.MethodPut, "/navigation/dashboard/badge", body), 1, "editor")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var it Item
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &it)).To(gomega.Succeed())
			gomega.Expect(it.Badge).ToNot(gomega.BeNil())
			gomega.Expect(it.Badge.Count).To(gomega.Equal(4))
		})

		ginkgo.It("rejects unknown badge types", func() {
			body := bytes.NewBufferString(`{"count":4,"type":"loud"}`)
			req := asUser(httptest.NewRequest(http.MethodPut, "/navigation/dashboard/badge", body), 1, "editor")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("answers 404 for unknown sections", func() {
			req := asUser(httptest.NewRequest(http.MethodDelete, "/navigation/nope/badge", nil), 1, "editor")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("clears a badge", func() {
			req := asUser(httptest.NewRequest(http.MethodDelete, "/navigation/dashboard/badge", nil), 1, "editor")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var it Item
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &it)).To(gomega.Succeed())
			gomega.Expect(it.Badge).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("admin item management", func() {
		ginkgo.It("creates an item", func() {
			body := bytes.NewBufferString(`{"id":"guides","label":"Guides","type":"single","permissions":["admin"]}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/admin/navigation", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		})

		ginkgo.It("answers 409 for a duplicate id", func() {
			body := bytes.NewBufferString(`{"id":"dashboard","label":"Dup","type":"single"}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/admin/navigation", body), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
		})

		ginkgo.It("deletes an item", func() {
			req := asUser(httptest.NewRequest(http.MethodDelete, "/admin/navigation/reports", nil), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		})

		ginkgo.It("answers 404 when deleting an unknown item", func() {
			req := asUser(httptest.NewRequest(http.MethodDelete, "/admin/navigation/nope", nil), 1, "admin")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})
	})
})
