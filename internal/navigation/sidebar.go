package navigation

// State is the sidebar state for one viewer session. Expanded preserves
// insertion order so re-renders are deterministic; Active is the id of the
// current section, "" when none; Role is "" until the auth collaborator
// resolves one.
//
// State values are passed into and returned from each operation; there is no
// hidden module-level state. The operations never mutate their receiver.
type State struct {
	Expanded []string `json:"expanded_sections"`
	Active   string   `json:"active_section,omitempty"`
	Role     UserRole `json:"user_role,omitempty"`
}

// NewState is the session-start state: nothing expanded, nothing active, no
// role resolved.
func NewState() State {
	return State{}
}

// IsExpanded reports whether id is currently expanded.
func (s State) IsExpanded(id string) bool {
	for _, e := range s.Expanded {
		if e == id {
			return true
		}
	}
	return false
}

func (s State) withExpanded(expanded []string) State {
	s.Expanded = expanded
	return s
}

// Expand discloses a dropdown section. It is total: unknown ids, single
// items, invisible items, dropdowns with no post-filter children, and
// already-expanded ids all return the state unchanged. The top level behaves
// as an accordion: expanding one root section collapses its expanded root
// siblings, while nested expansions are independent and survive top-level
// switches.
func (t *Tree) Expand(s State, id string) State {
	it, ok := t.byID[id]
	if !ok || it.Type != TypeDropdown {
		return s
	}
	if !t.Visible(id, s.Role) || !t.hasVisibleChildren(it, s.Role) {
		return s
	}
	if s.IsExpanded(id) {
		return s
	}

	expanded := make([]string, 0, len(s.Expanded)+1)
	for _, e := range s.Expanded {
		if t.IsTopLevel(id) && t.IsTopLevel(e) {
			continue
		}
		expanded = append(expanded, e)
	}
	expanded = append(expanded, id)
	return s.withExpanded(expanded)
}

// Collapse removes id from the expanded set along with every expanded
// descendant, so no detached expansion survives under a closed section.
// Idempotent when id is absent.
func (t *Tree) Collapse(s State, id string) State {
	if !s.IsExpanded(id) {
		return s
	}

	drop := map[string]bool{id: true}
	for _, d := range t.Descendants(id) {
		drop[d] = true
	}

	expanded := make([]string, 0, len(s.Expanded))
	for _, e := range s.Expanded {
		if !drop[e] {
			expanded = append(expanded, e)
		}
	}
	return s.withExpanded(expanded)
}

// Toggle collapses id when expanded, expands it otherwise.
func (t *Tree) Toggle(s State, id string) State {
	if s.IsExpanded(id) {
		return t.Collapse(s, id)
	}
	return t.Expand(s, id)
}

// Navigate makes id the active section and auto-expands its ancestor chain,
// switching the expanded top-level section when the target lives under a
// different root. It fails when id does not resolve in the role-filtered
// tree; the returned state is then the input state, untouched.
func (t *Tree) Navigate(s State, id string) (State, error) {
	if !t.Visible(id, s.Role) {
		return s, ErrInvalidTarget
	}

	chain := t.Ancestors(id)

	// Switching roots: drop any other expanded top-level section first.
	if len(chain) > 0 {
		root := chain[0]
		expanded := make([]string, 0, len(s.Expanded))
		for _, e := range s.Expanded {
			if t.IsTopLevel(e) && e != root {
				continue
			}
			expanded = append(expanded, e)
		}
		s = s.withExpanded(expanded)
	}

	for _, anc := range chain {
		if !s.IsExpanded(anc) {
			s = s.withExpanded(append(append([]string(nil), s.Expanded...), anc))
		}
	}

	s.Active = id
	return s, nil
}

// WithRole returns the state with the viewer role set. Expanded sections that
// are no longer visible under the new role are dropped, and the active
// section is cleared when it is no longer visible.
func (t *Tree) WithRole(s State, role UserRole) State {
	s.Role = role

	expanded := make([]string, 0, len(s.Expanded))
	for _, e := range s.Expanded {
		if t.Visible(e, role) {
			expanded = append(expanded, e)
		}
	}
	s = s.withExpanded(expanded)

	if s.Active != "" && !t.Visible(s.Active, role) {
		s.Active = ""
	}
	return s
}
