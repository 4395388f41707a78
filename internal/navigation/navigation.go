package navigation

import (
	"fmt"

	"github.com/tourismcms/tourism-cms/internal"
)

// UserRole is an opaque authorization tag. Role values are owned by the auth
// module; the navigation engine only compares them.
type UserRole string

// RoleAnonymous marks items open to unauthenticated viewers. An item is never
// visible to a viewer without a resolved role unless it carries this role.
const RoleAnonymous UserRole = "anonymous"

// ErrInvalidTarget is returned by Navigate for ids that do not resolve in the
// role-filtered tree. All other sidebar operations are total and no-op-safe.
var ErrInvalidTarget = internal.ErrInvalidTarget

type ItemType string

const (
	TypeSingle   ItemType = "single"
	TypeDropdown ItemType = "dropdown"
)

type BadgeType string

const (
	BadgeInfo    BadgeType = "info"
	BadgeWarning BadgeType = "warning"
	BadgeError   BadgeType = "error"
	BadgeSuccess BadgeType = "success"
)

// Badge is a count/severity annotation attached to a navigation item.
// A badge with Count 0 is not the same as no badge: callers may render
// "0 pending" explicitly.
type Badge struct {
	Count int       `json:"count"`
	Type  BadgeType `json:"type"`
}

func ValidBadgeType(t BadgeType) bool {
	switch t {
	case BadgeInfo, BadgeWarning, BadgeError, BadgeSuccess:
		return true
	}
	return false
}

// Item is one entry in the sidebar tree: either directly navigable (single)
// or a container of children (dropdown). Roles is the permission set; a role
// not present must not see the item. Empty Roles means visible to nobody.
type Item struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Icon        string     `json:"icon"`
	Path        string     `json:"path,omitempty"`
	Type        ItemType   `json:"type"`
	Roles       []UserRole `json:"permissions"`
	Badge       *Badge     `json:"badge,omitempty"`
	Subsections []*Item    `json:"subsections,omitempty"`
}

// HasRole reports whether the item's permission set contains role.
func (it *Item) HasRole(role UserRole) bool {
	for _, r := range it.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// visibleTo applies the fail-closed role check. An absent role only matches
// items explicitly open to the anonymous pseudo-role.
func (it *Item) visibleTo(role UserRole) bool {
	if role == "" {
		return it.HasRole(RoleAnonymous)
	}
	return it.HasRole(role)
}

// clone copies the item without its subsections.
func (it *Item) clone() *Item {
	cp := *it
	cp.Subsections = nil
	if it.Badge != nil {
		b := *it.Badge
		cp.Badge = &b
	}
	if it.Roles != nil {
		cp.Roles = append([]UserRole(nil), it.Roles...)
	}
	return &cp
}

// MergeBadge returns a copy of the item with badge replaced (or cleared when
// badge is nil). Counts below zero are clamped to zero; a zero-count badge is
// recorded, not dropped.
func MergeBadge(it *Item, badge *Badge) *Item {
	cp := it.clone()
	cp.Subsections = it.Subsections
	if badge == nil {
		cp.Badge = nil
		return cp
	}
	b := *badge
	if b.Count < 0 {
		b.Count = 0
	}
	cp.Badge = &b
	return cp
}

// Tree is the navigation forest loaded once at startup: immutable
// configuration plus an id index and parent links, so ancestor walks are
// O(depth) and lookups O(1).
type Tree struct {
	roots   []*Item
	byID    map[string]*Item
	parents map[string]string
}

// NewTree indexes and validates the forest. Malformed configuration is a
// load-time failure: duplicate ids anywhere in the tree, a single item
// carrying subsections, or a dropdown with a path but no children all refuse
// to build.
func NewTree(roots []*Item) (*Tree, error) {
	t := &Tree{
		roots:   roots,
		byID:    make(map[string]*Item),
		parents: make(map[string]string),
	}
	for _, root := range roots {
		if err := t.index(root, ""); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) index(it *Item, parentID string) error {
	if it.ID == "" {
		return internal.NewValidationError("navigation item has empty id", internal.ErrCodeNavigationTreeInvalid)
	}
	if _, exists := t.byID[it.ID]; exists {
		return internal.NewValidationError(
			fmt.Sprintf("duplicate navigation id %q", it.ID),
			internal.ErrCodeDuplicateNavigationID,
		)
	}
	switch it.Type {
	case TypeSingle:
		if len(it.Subsections) > 0 {
			return internal.NewValidationError(
				fmt.Sprintf("single item %q must not carry subsections", it.ID),
				internal.ErrCodeNavigationTreeInvalid,
			)
		}
	case TypeDropdown:
		if it.Path != "" && len(it.Subsections) == 0 {
			return internal.NewValidationError(
				fmt.Sprintf("dropdown item %q has a path but no subsections", it.ID),
				internal.ErrCodeNavigationTreeInvalid,
			)
		}
	default:
		return internal.NewValidationError(
			fmt.Sprintf("navigation item %q has unknown type %q", it.ID, it.Type),
			internal.ErrCodeNavigationTreeInvalid,
		)
	}

	t.byID[it.ID] = it
	t.parents[it.ID] = parentID

	for _, sub := range it.Subsections {
		if err := t.index(sub, it.ID); err != nil {
			return err
		}
	}
	return nil
}

// Item returns the indexed item for id.
func (t *Tree) Item(id string) (*Item, bool) {
	it, ok := t.byID[id]
	return it, ok
}

// Roots returns the top-level forest.
func (t *Tree) Roots() []*Item {
	return t.roots
}

// IsTopLevel reports whether id names a root item.
func (t *Tree) IsTopLevel(id string) bool {
	parent, ok := t.parents[id]
	return ok && parent == ""
}

// Ancestors returns the ancestor chain of id, root first. Unknown ids yield
// nil.
func (t *Tree) Ancestors(id string) []string {
	var chain []string
	for {
		parent, ok := t.parents[id]
		if !ok || parent == "" {
			break
		}
		chain = append([]string{parent}, chain...)
		id = parent
	}
	return chain
}

// Descendants returns every id below id in the tree.
func (t *Tree) Descendants(id string) []string {
	it, ok := t.byID[id]
	if !ok {
		return nil
	}
	var ids []string
	var walk func(*Item)
	walk = func(n *Item) {
		for _, sub := range n.Subsections {
			ids = append(ids, sub.ID)
			walk(sub)
		}
	}
	walk(it)
	return ids
}

// Visible reports whether id resolves to an item the role may see, including
// transitively: a permitted child under a forbidden parent is not visible.
func (t *Tree) Visible(id string, role UserRole) bool {
	it, ok := t.byID[id]
	if !ok {
		return false
	}
	if !it.visibleTo(role) {
		return false
	}
	for _, anc := range t.Ancestors(id) {
		if !t.byID[anc].visibleTo(role) {
			return false
		}
	}
	return true
}

// hasVisibleChildren reports whether a dropdown presents at least one child
// after role filtering.
func (t *Tree) hasVisibleChildren(it *Item, role UserRole) bool {
	for _, sub := range it.Subsections {
		if sub.visibleTo(role) {
			return true
		}
	}
	return false
}

// VisibleTree prunes the forest for a role. Pure and deterministic: the same
// (tree, role) input always yields the same output, and filtering an already
// filtered tree is a no-op. Parent permission gates descent; a retained
// dropdown whose children are all pruned keeps its node with no children.
func (t *Tree) VisibleTree(role UserRole) []*Item {
	return filterItems(t.roots, role)
}

func filterItems(items []*Item, role UserRole) []*Item {
	var out []*Item
	for _, it := range items {
		if !it.visibleTo(role) {
			continue
		}
		cp := it.clone()
		if it.Type == TypeDropdown {
			cp.Subsections = filterItems(it.Subsections, role)
		}
		out = append(out, cp)
	}
	return out
}
