package navigation

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/tourismcms/tourism-cms/internal"
	"github.com/tourismcms/tourism-cms/internal/core/events"
)

type mockNavigationRepository struct {
	roots       func() []*Item
	savedBadges map[string]*Badge
	created     []CreateItemDTO
	updated     map[string]UpdateItemDTO
	deleted     []string
	returnError error
}

func newMockNavigationRepository(roots func() []*Item) *mockNavigationRepository {
	return &mockNavigationRepository{
		roots:       roots,
		savedBadges: make(map[string]*Badge),
		updated:     make(map[string]UpdateItemDTO),
	}
}

func (m *mockNavigationRepository) setError(err error) {
	m.returnError = err
}

func (m *mockNavigationRepository) clearError() {
	m.returnError = nil
}

func (m *mockNavigationRepository) LoadTree() ([]*Item, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.roots(), nil
}

func (m *mockNavigationRepository) SaveBadge(itemID string, badge *Badge) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.savedBadges[itemID] = badge
	return nil
}

func (m *mockNavigationRepository) CreateItem(dto CreateItemDTO) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.created = append(m.created, dto)
	return nil
}

func (m *mockNavigationRepository) UpdateItem(itemID string, dto UpdateItemDTO) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.updated[itemID] = dto
	return nil
}

func (m *mockNavigationRepository) DeleteItem(itemID string) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.deleted = append(m.deleted, itemID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func findItem(items []*Item, id string) *Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
		if found := findItem(it.Subsections, id); found != nil {
			return found
		}
	}
	return nil
}

var _ = ginkgo.Describe("Navigation Service", func() {
	var (
		repo    *mockNavigationRepository
		bus     *events.EventBus
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockNavigationRepository(fixtureRoots)
		bus = events.NewEventBus(testLogger())

		var err error
		service, err = NewService(repo, testLogger(), bus)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.Describe("NewService", func() {
		ginkgo.It("refuses a malformed tree", func() {
			badRepo := newMockNavigationRepository(func() []*Item {
				return []*Item{
					{ID: "a", Label: "A", Type: TypeSingle, Roles: []UserRole{"admin"}},
					{ID: "a", Label: "A again", Type: TypeSingle, Roles: []UserRole{"admin"}},
				}
			})

			_, err := NewService(badRepo, testLogger(), bus)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("propagates repository failures", func() {
			badRepo := newMockNavigationRepository(fixtureRoots)
			badRepo.setError(errors.New("connection refused"))

			_, err := NewService(badRepo, testLogger(), bus)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("VisibleTree", func() {
		ginkgo.It("filters by role", func() {
			ids := collectIDs(service.VisibleTree("viewer"))
			gomega.Expect(ids).To(gomega.ConsistOf(
				"dashboard", "attractions", "attractions-list", "attractions-reviews",
			))
		})

		ginkgo.It("applies the badge overlay on every call", func() {
			_, err := service.MergeBadge(ctx, "attractions-reviews", &Badge{Count: 5, Type: BadgeWarning})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			it := findItem(service.VisibleTree("editor"), "attractions-reviews")
			gomega.Expect(it).ToNot(gomega.BeNil())
			gomega.Expect(it.Badge).ToNot(gomega.BeNil())
			gomega.Expect(it.Badge.Count).To(gomega.Equal(5))
		})
	})

	ginkgo.Describe("MergeBadge", func() {
		ginkgo.It("persists the badge through the repository", func() {
			_, err := service.MergeBadge(ctx, "dashboard", &Badge{Count: 3, Type: BadgeInfo})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.savedBadges).To(gomega.HaveKey("dashboard"))
			gomega.Expect(repo.savedBadges["dashboard"].Count).To(gomega.Equal(3))
		})

		ginkgo.It("clamps negative counts to zero", func() {
			merged, err := service.MergeBadge(ctx, "dashboard", &Badge{Count: -3, Type: BadgeError})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(merged.Badge.Count).To(gomega.Equal(0))
		})

		ginkgo.It("keeps a zero count badge distinct from a cleared one", func() {
			_, err := service.MergeBadge(ctx, "dashboard", &Badge{Count: 0, Type: BadgeInfo})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			it := findItem(service.VisibleTree("admin"), "dashboard")
			gomega.Expect(it.Badge).ToNot(gomega.BeNil())
			gomega.Expect(it.Badge.Count).To(gomega.Equal(0))

			cleared, err := service.MergeBadge(ctx, "dashboard", nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cleared.Badge).To(gomega.BeNil())

			it = findItem(service.VisibleTree("admin"), "dashboard")
			gomega.Expect(it.Badge).To(gomega.BeNil())
		})

		ginkgo.It("rejects unknown target ids", func() {
			_, err := service.MergeBadge(ctx, "nope", &Badge{Count: 1, Type: BadgeInfo})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrBadgeTargetNotFound))
		})

		ginkgo.It("publishes a badge updated event", func() {
			var received *events.BadgeUpdatedEvent
			bus.Subscribe(events.EventTypeBadgeUpdated, func(ctx context.Context, evt events.Event) error {
				received = evt.(*events.BadgeUpdatedEvent)
				return nil
			})

			_, err := service.MergeBadge(ctx, "dashboard", &Badge{Count: 4, Type: BadgeWarning})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(received).ToNot(gomega.BeNil())
			gomega.Expect(received.SectionID).To(gomega.Equal("dashboard"))
			gomega.Expect(received.Count).To(gomega.Equal(4))
			gomega.Expect(received.Cleared).To(gomega.BeFalse())
		})

		ginkgo.It("flags cleared badges in the event", func() {
			var received *events.BadgeUpdatedEvent
			bus.Subscribe(events.EventTypeBadgeUpdated, func(ctx context.Context, evt events.Event) error {
				received = evt.(*events.BadgeUpdatedEvent)
				return nil
			})

			_, err := service.MergeBadge(ctx, "dashboard", nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(received.Cleared).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Sidebar sessions", func() {
		ginkgo.It("creates a fresh session on first access", func() {
			state := service.Sidebar(1, "admin")
			gomega.Expect(state.Expanded).To(gomega.BeEmpty())
			gomega.Expect(state.Active).To(gomega.BeEmpty())
			gomega.Expect(state.Role).To(gomega.Equal(UserRole("admin")))
		})

		ginkgo.It("keeps sessions per user", func() {
			service.Expand(ctx, 1, "admin", "reports")

			gomega.Expect(service.Sidebar(1, "admin").Expanded).To(gomega.Equal([]string{"reports"}))
			gomega.Expect(service.Sidebar(2, "admin").Expanded).To(gomega.BeEmpty())
		})

		ginkgo.It("re-filters the session when the role changes", func() {
			service.Expand(ctx, 1, "admin", "reports")
			service.Expand(ctx, 1, "admin", "reports-finance")

			state := service.Sidebar(1, "editor")
			gomega.Expect(state.Role).To(gomega.Equal(UserRole("editor")))
			gomega.Expect(state.Expanded).To(gomega.Equal([]string{"reports"}))
		})

		ginkgo.It("publishes a sidebar changed event on mutation", func() {
			var received *events.SidebarChangedEvent
			bus.Subscribe(events.EventTypeSidebarChanged, func(ctx context.Context, evt events.Event) error {
				received = evt.(*events.SidebarChangedEvent)
				return nil
			})

			service.Expand(ctx, 7, "admin", "reports")

			gomega.Expect(received).ToNot(gomega.BeNil())
			gomega.Expect(received.UserID).To(gomega.Equal(int64(7)))
			gomega.Expect(received.ExpandedSections).To(gomega.Equal([]string{"reports"}))
		})

		ginkgo.It("navigates and records the active section", func() {
			state, err := service.Navigate(ctx, 1, "admin", "reports-visitors")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(state.Active).To(gomega.Equal("reports-visitors"))
			gomega.Expect(state.Expanded).To(gomega.Equal([]string{"reports"}))

			gomega.Expect(service.Sidebar(1, "admin").Active).To(gomega.Equal("reports-visitors"))
		})

		ginkgo.It("leaves the session untouched on an invalid navigate", func() {
			service.Expand(ctx, 1, "viewer", "attractions")

			_, err := service.Navigate(ctx, 1, "viewer", "reports-visitors")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidTarget))
			gomega.Expect(service.Sidebar(1, "viewer").Expanded).To(gomega.Equal([]string{"attractions"}))
		})

		ginkgo.It("toggles a section", func() {
			state := service.Toggle(ctx, 1, "admin", "reports")
			gomega.Expect(state.Expanded).To(gomega.Equal([]string{"reports"}))

			state = service.Toggle(ctx, 1, "admin", "reports")
			gomega.Expect(state.Expanded).To(gomega.BeEmpty())
		})

		ginkgo.It("collapses a section and its expanded descendants", func() {
			service.Expand(ctx, 1, "admin", "reports")
			service.Expand(ctx, 1, "admin", "reports-finance")

			state := service.Collapse(ctx, 1, "admin", "reports")
			gomega.Expect(state.Expanded).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("CreateItem", func() {
		ginkgo.It("creates and reloads the tree", func() {
			var reloaded *events.NavigationReloadedEvent
			bus.Subscribe(events.EventTypeNavigationReloaded, func(ctx context.Context, evt events.Event) error {
				reloaded = evt.(*events.NavigationReloadedEvent)
				return nil
			})

			err := service.CreateItem(ctx, CreateItemDTO{
				ID: "guides", Label: "Guides", Type: "single", Roles: []string{"admin"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.created).To(gomega.HaveLen(1))
			gomega.Expect(reloaded).ToNot(gomega.BeNil())
		})

		ginkgo.It("rejects duplicate ids with a conflict", func() {
			err := service.CreateItem(ctx, CreateItemDTO{
				ID: "dashboard", Label: "Another Dashboard", Type: "single", Roles: []string{"admin"},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
			gomega.Expect(repo.created).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects an unknown parent", func() {
			err := service.CreateItem(ctx, CreateItemDTO{
				ID: "orphan", Label: "Orphan", Type: "single", ParentID: "nope", Roles: []string{"admin"},
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNavigationItemNotFound))
		})

		ginkgo.It("rejects a parent that is not a dropdown", func() {
			err := service.CreateItem(ctx, CreateItemDTO{
				ID: "sub", Label: "Sub", Type: "single", ParentID: "dashboard", Roles: []string{"admin"},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("rejects invalid payloads before touching storage", func() {
			err := service.CreateItem(ctx, CreateItemDTO{ID: "", Label: "X", Type: "single"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.created).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("UpdateItem", func() {
		ginkgo.It("updates an existing item", func() {
			err := service.UpdateItem(ctx, "dashboard", UpdateItemDTO{Label: "Home", Roles: []string{"admin"}})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.updated).To(gomega.HaveKey("dashboard"))
		})

		ginkgo.It("rejects unknown items", func() {
			err := service.UpdateItem(ctx, "nope", UpdateItemDTO{Label: "X"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNavigationItemNotFound))
		})
	})

	ginkgo.Describe("DeleteItem", func() {
		ginkgo.It("deletes an existing item", func() {
			err := service.DeleteItem(ctx, "reports")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.deleted).To(gomega.Equal([]string{"reports"}))
		})

		ginkgo.It("rejects unknown items", func() {
			err := service.DeleteItem(ctx, "nope")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNavigationItemNotFound))
		})
	})

	ginkgo.Describe("SectionExists", func() {
		ginkgo.It("resolves ids regardless of role visibility", func() {
			gomega.Expect(service.SectionExists("reports-finance-tax")).To(gomega.BeTrue())
			gomega.Expect(service.SectionExists("nope")).To(gomega.BeFalse())
		})
	})
})
