package content

import (
	"time"

	contentDatamodel "github.com/tourismcms/tourism-cms/internal/core/datamodel/content"
)

// Editorial workflow statuses. Draft belongs to its author, pending sits in
// the moderation queue, published is live, archived is retired.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPending, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Content is a CMS article attached to a navigation section.
type Content struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary,omitempty"`
	Body      string    `json:"body,omitempty"`
	SectionID string    `json:"section_id"`
	Status    string    `json:"status"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanTransitionTo reports whether the workflow allows moving to status.
func (c *Content) CanTransitionTo(status string) bool {
	switch c.Status {
	case StatusDraft:
		return status == StatusPending
	case StatusPending:
		return status == StatusPublished || status == StatusDraft
	case StatusPublished:
		return status == StatusArchived
	}
	return false
}

func (c *Content) IsEditable() bool {
	return c.Status == StatusDraft
}

func (c *Content) ToDataModel() *contentDatamodel.Content {
	return &contentDatamodel.Content{
		ID:        c.ID,
		Title:     c.Title,
		Slug:      c.Slug,
		Summary:   c.Summary,
		Body:      c.Body,
		SectionID: c.SectionID,
		Status:    c.Status,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(dm *contentDatamodel.Content) *Content {
	return &Content{
		ID:        dm.ID,
		Title:     dm.Title,
		Slug:      dm.Slug,
		Summary:   dm.Summary,
		Body:      dm.Body,
		SectionID: dm.SectionID,
		Status:    dm.Status,
		AuthorID:  dm.AuthorID,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}
