package navigation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tourismcms/tourism-cms/internal"
	"github.com/tourismcms/tourism-cms/internal/core/events"
)

type RepositoryAPI interface {
	LoadTree() ([]*Item, error)
	SaveBadge(itemID string, badge *Badge) error
	CreateItem(dto CreateItemDTO) error
	UpdateItem(itemID string, dto UpdateItemDTO) error
	DeleteItem(itemID string) error
}

// Service owns the loaded navigation tree, the per-viewer sidebar sessions
// and the badge overlay. The tree itself is immutable configuration; admin
// mutations go through the repository and swap in a freshly validated tree.
//
// All sidebar mutation flows through the Service so that every UI surface
// observing a viewer sees one source of truth; subscribers are notified via
// the event bus after each operation.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	bus    *events.EventBus

	mu       sync.RWMutex
	tree     *Tree
	badges   map[string]*Badge
	sessions map[int64]State
}

// NewService loads and validates the navigation tree. Malformed configuration
// (duplicate ids, a single item with subsections, a dropdown with a path but
// no children) refuses to initialize.
func NewService(repo RepositoryAPI, logger *slog.Logger, bus *events.EventBus) (*Service, error) {
	s := &Service{
		repo:     repo,
		logger:   logger,
		bus:      bus,
		sessions: make(map[int64]State),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) reload() error {
	roots, err := s.repo.LoadTree()
	if err != nil {
		s.logger.Error("failed to load navigation tree", "error", err)
		return err
	}

	tree, err := NewTree(roots)
	if err != nil {
		s.logger.Error("navigation tree is malformed", "error", err)
		return err
	}

	badges := make(map[string]*Badge)
	for id, it := range tree.byID {
		if it.Badge != nil {
			b := *it.Badge
			badges[id] = &b
		}
	}

	s.mu.Lock()
	s.tree = tree
	s.badges = badges
	s.mu.Unlock()

	s.logger.Info("navigation tree loaded", "items", len(tree.byID))
	return nil
}

// Reload re-reads the tree from storage, keeping the previous tree when the
// new configuration fails validation.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.reload(); err != nil {
		return err
	}
	s.mu.RLock()
	count := len(s.tree.byID)
	s.mu.RUnlock()
	return s.bus.PublishSync(ctx, events.NewNavigationReloadedEvent(count))
}

// VisibleTree returns the role-filtered forest with the badge overlay
// applied. Pure with respect to sidebar sessions.
func (s *Service) VisibleTree(role UserRole) []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.tree.VisibleTree(role)
	s.applyBadges(items)
	return items
}

func (s *Service) applyBadges(items []*Item) {
	for _, it := range items {
		if b, ok := s.badges[it.ID]; ok {
			cp := *b
			it.Badge = &cp
		} else {
			it.Badge = nil
		}
		s.applyBadges(it.Subsections)
	}
}

// Sidebar returns the viewer's sidebar state, creating a fresh session when
// none exists. The role is re-applied on every access so that a role change
// (login, logout) immediately drops state the viewer may no longer see.
func (s *Service) Sidebar(userID int64, role UserRole) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLocked(userID, role)
}

func (s *Service) sessionLocked(userID int64, role UserRole) State {
	state, ok := s.sessions[userID]
	if !ok {
		state = NewState()
	}
	if state.Role != role {
		state = s.tree.WithRole(state, role)
	}
	s.sessions[userID] = state
	return state
}

func (s *Service) mutate(ctx context.Context, userID int64, role UserRole, op func(*Tree, State) State) State {
	s.mu.Lock()
	state := s.sessionLocked(userID, role)
	next := op(s.tree, state)
	s.sessions[userID] = next
	s.mu.Unlock()

	s.notify(ctx, userID, next)
	return next
}

func (s *Service) notify(ctx context.Context, userID int64, state State) {
	evt := events.NewSidebarChangedEvent(userID, state.Expanded, state.Active)
	if err := s.bus.PublishSync(ctx, evt); err != nil {
		s.logger.Error("failed to notify sidebar subscribers", "error", err, "user_id", userID)
	}
}

// Expand, Collapse and Toggle are total: invalid or stale section ids leave
// the state unchanged. Navigation UIs see stale ids routinely from async
// re-renders and must not error on them.

func (s *Service) Expand(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.mutate(ctx, userID, role, func(t *Tree, st State) State {
		return t.Expand(st, sectionID)
	})
}

func (s *Service) Collapse(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.mutate(ctx, userID, role, func(t *Tree, st State) State {
		return t.Collapse(st, sectionID)
	})
}

func (s *Service) Toggle(ctx context.Context, userID int64, role UserRole, sectionID string) State {
	return s.mutate(ctx, userID, role, func(t *Tree, st State) State {
		return t.Toggle(st, sectionID)
	})
}

// Navigate activates a section the viewer can see, auto-expanding its
// ancestor chain. Returns ErrInvalidTarget and leaves the session untouched
// when the id does not resolve under the viewer's role.
func (s *Service) Navigate(ctx context.Context, userID int64, role UserRole, sectionID string) (State, error) {
	s.mu.Lock()
	state := s.sessionLocked(userID, role)
	next, err := s.tree.Navigate(state, sectionID)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("navigate to invalid target",
			"user_id", userID,
			"section_id", sectionID,
			"role", role)
		return state, err
	}
	s.sessions[userID] = next
	s.mu.Unlock()

	s.notify(ctx, userID, next)
	return next, nil
}

// MergeBadge replaces or clears an item's badge, clamping negative counts to
// zero. A zero-count badge stays recorded, distinct from no badge at all.
func (s *Service) MergeBadge(ctx context.Context, itemID string, badge *Badge) (*Item, error) {
	s.mu.Lock()
	it, ok := s.tree.Item(itemID)
	if !ok {
		s.mu.Unlock()
		return nil, internal.ErrBadgeTargetNotFound
	}

	merged := MergeBadge(it, badge)
	if merged.Badge == nil {
		delete(s.badges, itemID)
	} else {
		b := *merged.Badge
		s.badges[itemID] = &b
	}
	s.mu.Unlock()

	if err := s.repo.SaveBadge(itemID, merged.Badge); err != nil {
		s.logger.Error("failed to persist badge", "error", err, "item_id", itemID)
		return nil, err
	}

	count, badgeType, cleared := 0, "", true
	if merged.Badge != nil {
		count, badgeType, cleared = merged.Badge.Count, string(merged.Badge.Type), false
	}
	evt := events.NewBadgeUpdatedEvent(itemID, count, badgeType, cleared)
	if err := s.bus.PublishSync(ctx, evt); err != nil {
		s.logger.Error("failed to notify badge subscribers", "error", err, "item_id", itemID)
	}

	s.logger.Info("badge merged", "item_id", itemID, "count", count, "cleared", cleared)
	return merged, nil
}

// SectionExists reports whether an id resolves in the loaded tree,
// regardless of role visibility.
func (s *Service) SectionExists(sectionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tree.Item(sectionID)
	return ok
}

// ---- admin item management ----

func (s *Service) CreateItem(ctx context.Context, dto CreateItemDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.tree.Item(dto.ID)
	var parentErr error
	if dto.ParentID != "" {
		parent, ok := s.tree.Item(dto.ParentID)
		if !ok {
			parentErr = internal.ErrNavigationItemNotFound
		} else if parent.Type != TypeDropdown {
			parentErr = internal.NewValidationError("parent item is not a dropdown", internal.ErrCodeNavigationTreeInvalid)
		}
	}
	s.mu.RUnlock()

	if exists {
		return internal.NewConflictError("navigation id already in use", internal.ErrCodeDuplicateNavigationID)
	}
	if parentErr != nil {
		return parentErr
	}

	if err := s.repo.CreateItem(dto); err != nil {
		s.logger.Error("failed to create navigation item", "error", err, "item_id", dto.ID)
		return err
	}
	return s.Reload(ctx)
}

func (s *Service) UpdateItem(ctx context.Context, itemID string, dto UpdateItemDTO) error {
	s.mu.RLock()
	_, ok := s.tree.Item(itemID)
	s.mu.RUnlock()
	if !ok {
		return internal.ErrNavigationItemNotFound
	}

	if err := s.repo.UpdateItem(itemID, dto); err != nil {
		s.logger.Error("failed to update navigation item", "error", err, "item_id", itemID)
		return err
	}
	return s.Reload(ctx)
}

// DeleteItem removes an item and its whole subtree.
func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	s.mu.RLock()
	_, ok := s.tree.Item(itemID)
	s.mu.RUnlock()
	if !ok {
		return internal.ErrNavigationItemNotFound
	}

	if err := s.repo.DeleteItem(itemID); err != nil {
		s.logger.Error("failed to delete navigation item", "error", err, "item_id", itemID)
		return err
	}
	return s.Reload(ctx)
}
