package navigation

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Sidebar Expand", func() {
	var (
		tree  *Tree
		state State
	)

	ginkgo.BeforeEach(func() {
		tree = mustTree()
		state = tree.WithRole(NewState(), "admin")
	})

	ginkgo.It("expands a visible dropdown", func() {
		next := tree.Expand(state, "reports")
		gomega.Expect(next.Expanded).To(gomega.Equal([]string{"reports"}))
	})

	ginkgo.It("ignores unknown ids", func() {
		next := tree.Expand(state, "nope")
		gomega.Expect(next).To(gomega.Equal(state))
	})

	ginkgo.It("ignores single items", func() {
		next := tree.Expand(state, "dashboard")
		gomega.Expect(next).To(gomega.Equal(state))
	})

	ginkgo.It("ignores dropdowns the role cannot see", func() {
		viewer := tree.WithRole(NewState(), "viewer")
		next := tree.Expand(viewer, "reports")
		gomega.Expect(next).To(gomega.Equal(viewer))
	})

	ginkgo.It("ignores dropdowns with no visible children", func() {
		roots := []*Item{
			{ID: "tools", Label: "Tools", Type: TypeDropdown, Roles: []UserRole{"viewer", "admin"}, Subsections: []*Item{
				{ID: "tools-audit", Label: "Audit", Type: TypeSingle, Roles: []UserRole{"admin"}},
			}},
		}
		t2, err := NewTree(roots)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		viewer := t2.WithRole(NewState(), "viewer")
		gomega.Expect(t2.Expand(viewer, "tools")).To(gomega.Equal(viewer))

		admin := t2.WithRole(NewState(), "admin")
		gomega.Expect(t2.Expand(admin, "tools").Expanded).To(gomega.Equal([]string{"tools"}))
	})

	ginkgo.It("is a no-op when already expanded", func() {
		once := tree.Expand(state, "reports")
		twice := tree.Expand(once, "reports")
		gomega.Expect(twice).To(gomega.Equal(once))
	})

	ginkgo.It("collapses root siblings like an accordion", func() {
		s := tree.Expand(state, "attractions")
		s = tree.Expand(s, "reports")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports"}))
	})

	ginkgo.It("keeps nested expansions across a top-level switch", func() {
		s := tree.Expand(state, "reports")
		s = tree.Expand(s, "reports-finance")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports", "reports-finance"}))

		s = tree.Expand(s, "attractions")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports-finance", "attractions"}))
	})

	ginkgo.It("does not touch siblings when expanding a nested dropdown", func() {
		s := tree.Expand(state, "attractions")
		s = tree.Expand(s, "reports-finance")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"attractions", "reports-finance"}))
	})
})

var _ = ginkgo.Describe("Sidebar Collapse", func() {
	var (
		tree  *Tree
		state State
	)

	ginkgo.BeforeEach(func() {
		tree = mustTree()
		state = tree.WithRole(NewState(), "admin")
	})

	ginkgo.It("removes the id from the expanded set", func() {
		s := tree.Expand(state, "reports")
		s = tree.Collapse(s, "reports")
		gomega.Expect(s.Expanded).To(gomega.BeEmpty())
	})

	ginkgo.It("removes expanded descendants along with the section", func() {
		s := tree.Expand(state, "reports")
		s = tree.Expand(s, "reports-finance")
		s = tree.Collapse(s, "reports")
		gomega.Expect(s.Expanded).To(gomega.BeEmpty())
	})

	ginkgo.It("leaves unrelated expansions alone", func() {
		s := tree.Expand(state, "attractions")
		s = tree.Expand(s, "reports-finance")
		s = tree.Collapse(s, "reports-finance")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"attractions"}))
	})

	ginkgo.It("is idempotent for ids that are not expanded", func() {
		next := tree.Collapse(state, "reports")
		gomega.Expect(next).To(gomega.Equal(state))
	})
})

var _ = ginkgo.Describe("Sidebar Toggle", func() {
	ginkgo.It("round-trips expand and collapse", func() {
		tree := mustTree()
		s := tree.WithRole(NewState(), "admin")

		s = tree.Toggle(s, "reports")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports"}))

		s = tree.Toggle(s, "reports")
		gomega.Expect(s.Expanded).To(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("Sidebar Navigate", func() {
	var (
		tree  *Tree
		state State
	)

	ginkgo.BeforeEach(func() {
		tree = mustTree()
		state = tree.WithRole(NewState(), "admin")
	})

	ginkgo.It("activates a top-level single item", func() {
		s, err := tree.Navigate(state, "dashboard")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(s.Active).To(gomega.Equal("dashboard"))
		gomega.Expect(s.Expanded).To(gomega.BeEmpty())
	})

	ginkgo.It("auto-expands the ancestor chain root first", func() {
		s, err := tree.Navigate(state, "reports-finance-tax")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(s.Active).To(gomega.Equal("reports-finance-tax"))
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports", "reports-finance"}))
	})

	ginkgo.It("switches the expanded top-level section", func() {
		s := tree.Expand(state, "attractions")
		s, err := tree.Navigate(s, "reports-visitors")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports"}))
		gomega.Expect(s.Active).To(gomega.Equal("reports-visitors"))
	})

	ginkgo.It("keeps existing expansions when already inside the target root", func() {
		s := tree.Expand(state, "reports")
		s = tree.Expand(s, "reports-finance")
		s, err := tree.Navigate(s, "reports-visitors")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports", "reports-finance"}))
	})

	ginkgo.It("rejects unknown targets and leaves the state untouched", func() {
		s := tree.Expand(state, "attractions")
		out, err := tree.Navigate(s, "nope")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidTarget))
		gomega.Expect(out).To(gomega.Equal(s))
	})

	ginkgo.It("rejects targets outside the role's visible tree", func() {
		viewer := tree.WithRole(NewState(), "viewer")
		out, err := tree.Navigate(viewer, "reports-visitors")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidTarget))
		gomega.Expect(out).To(gomega.Equal(viewer))
	})

	ginkgo.It("rejects a permitted target under a forbidden parent", func() {
		viewer := tree.WithRole(NewState(), "viewer")
		_, err := tree.Navigate(viewer, "partners-portal")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidTarget))
	})
})

var _ = ginkgo.Describe("Sidebar WithRole", func() {
	ginkgo.It("drops expansions that the new role cannot see", func() {
		tree := mustTree()
		s := tree.WithRole(NewState(), "admin")
		s = tree.Expand(s, "reports")
		s = tree.Expand(s, "reports-finance")

		s = tree.WithRole(s, "editor")
		gomega.Expect(s.Role).To(gomega.Equal(UserRole("editor")))
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"reports"}))
	})

	ginkgo.It("clears an active section the new role cannot see", func() {
		tree := mustTree()
		s := tree.WithRole(NewState(), "admin")
		s, err := tree.Navigate(s, "reports-finance-tax")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		s = tree.WithRole(s, "viewer")
		gomega.Expect(s.Active).To(gomega.BeEmpty())
		gomega.Expect(s.Expanded).To(gomega.BeEmpty())
	})

	ginkgo.It("keeps state that survives the role change", func() {
		tree := mustTree()
		s := tree.WithRole(NewState(), "admin")
		s = tree.Expand(s, "attractions")
		s, err := tree.Navigate(s, "attractions-list")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		s = tree.WithRole(s, "viewer")
		gomega.Expect(s.Expanded).To(gomega.Equal([]string{"attractions"}))
		gomega.Expect(s.Active).To(gomega.Equal("attractions-list"))
	})
})
