package navigation

import "github.com/tourismcms/tourism-cms/internal"

type NavigationResponse struct {
	Items []*Item `json:"items"`
}

// SidebarOpDTO is the body of every sidebar operation request.
type SidebarOpDTO struct {
	SectionID string `json:"section_id"`
}

func (d SidebarOpDTO) Validate() *internal.AppError {
	if d.SectionID == "" {
		return internal.NewValidationFieldError("section_id", "section_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type BadgeDTO struct {
	Count int    `json:"count"`
	Type  string `json:"type"`
}

func (d BadgeDTO) Validate() *internal.AppError {
	if !ValidBadgeType(BadgeType(d.Type)) {
		return internal.NewValidationFieldError("type", "badge type must be one of info, warning, error, success", internal.ErrCodeInvalidBadgeType)
	}
	return nil
}

func (d BadgeDTO) ToBadge() *Badge {
	return &Badge{Count: d.Count, Type: BadgeType(d.Type)}
}

type CreateItemDTO struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Path     string   `json:"path,omitempty"`
	Type     string   `json:"type"`
	ParentID string   `json:"parent_id,omitempty"`
	Position int      `json:"position"`
	Roles    []string `json:"permissions"`
}

func (d CreateItemDTO) Validate() *internal.AppError {
	if d.ID == "" {
		return internal.NewValidationFieldError("id", "id is required", internal.ErrCodeValidationFailed)
	}
	if d.Label == "" {
		return internal.NewValidationFieldError("label", "label is required", internal.ErrCodeInvalidLabel)
	}
	if t := ItemType(d.Type); t != TypeSingle && t != TypeDropdown {
		return internal.NewValidationFieldError("type", "type must be single or dropdown", internal.ErrCodeInvalidItemType)
	}
	return nil
}

type UpdateItemDTO struct {
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Path     string   `json:"path,omitempty"`
	Position int      `json:"position"`
	Roles    []string `json:"permissions"`
}

func (d UpdateItemDTO) Validate() *internal.AppError {
	if d.Label == "" {
		return internal.NewValidationFieldError("label", "label is required", internal.ErrCodeInvalidLabel)
	}
	return nil
}
