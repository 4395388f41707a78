package content

import (
	"regexp"

	"github.com/tourismcms/tourism-cms/internal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateContentDTO struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary,omitempty"`
	Body      string `json:"body,omitempty"`
	SectionID string `json:"section_id"`
}

func (d CreateContentDTO) Validate() *internal.AppError {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if d.Slug == "" {
		return internal.NewValidationFieldError("slug", "slug is required", internal.ErrCodeValidationFailed)
	}
	if !slugPattern.MatchString(d.Slug) {
		return internal.NewValidationFieldError("slug", "slug must be lowercase letters, digits and hyphens", internal.ErrCodeValidationFailed)
	}
	if d.SectionID == "" {
		return internal.NewValidationFieldError("section_id", "section_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateContentDTO struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (d UpdateContentDTO) Validate() *internal.AppError {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ContentListResponse struct {
	Items []*Content `json:"items"`
	Total int64      `json:"total"`
}
