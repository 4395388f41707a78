package content

import (
	"context"
	"log/slog"

	"github.com/tourismcms/tourism-cms/internal"
	"github.com/tourismcms/tourism-cms/internal/core/events"
)

type RepositoryAPI interface {
	Create(c *Content) error
	GetByID(id int64) (*Content, error)
	GetBySlug(slug string) (*Content, error)
	ListBySection(sectionID string, status string) ([]*Content, int64, error)
	Update(c *Content) error
	UpdateStatus(id int64, status string) error
	PendingCountBySection() (map[string]int64, error)
}

// SectionResolver answers whether a section id exists in the navigation
// tree. Content rows must hang off a real section.
type SectionResolver interface {
	SectionExists(sectionID string) bool
}

type Service struct {
	repo     RepositoryAPI
	sections SectionResolver
	logger   *slog.Logger
	bus      *events.EventBus
}

func NewService(repo RepositoryAPI, sections SectionResolver, logger *slog.Logger, bus *events.EventBus) *Service {
	return &Service{
		repo:     repo,
		sections: sections,
		logger:   logger,
		bus:      bus,
	}
}

// Create stores a new draft owned by authorID.
func (s *Service) Create(ctx context.Context, authorID int64, dto CreateContentDTO) (*Content, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !s.sections.SectionExists(dto.SectionID) {
		return nil, internal.ErrNavigationItemNotFound
	}

	if existing, err := s.repo.GetBySlug(dto.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, internal.NewConflictError("slug already in use", internal.ErrCodeDuplicateSlug)
	}

	c := &Content{
		Title:     dto.Title,
		Slug:      dto.Slug,
		Summary:   dto.Summary,
		Body:      dto.Body,
		SectionID: dto.SectionID,
		Status:    StatusDraft,
		AuthorID:  authorID,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create content", "error", err, "slug", dto.Slug)
		return nil, err
	}

	s.logger.Info("content created", "content_id", c.ID, "section_id", c.SectionID, "author_id", authorID)
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Content, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, internal.ErrContentNotFound
	}
	return c, nil
}

// ListBySection returns content for one section, optionally filtered by
// status. An empty status means all statuses.
func (s *Service) ListBySection(ctx context.Context, sectionID, status string) ([]*Content, int64, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, internal.ErrInvalidContentStatus
	}
	return s.repo.ListBySection(sectionID, status)
}

// Update edits a draft. Content past draft must go back through the
// workflow before editing.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateContentDTO) (*Content, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsEditable() {
		return nil, internal.ErrCannotModifyContent
	}

	c.Title = dto.Title
	c.Summary = dto.Summary
	c.Body = dto.Body

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update content", "error", err, "content_id", id)
		return nil, err
	}
	return c, nil
}

// SubmitForReview moves a draft into the moderation queue.
func (s *Service) SubmitForReview(ctx context.Context, id int64) (*Content, error) {
	return s.transition(ctx, id, StatusPending)
}

// Publish approves pending content.
func (s *Service) Publish(ctx context.Context, id int64) (*Content, error) {
	return s.transition(ctx, id, StatusPublished)
}

// Reject returns pending content to its author as a draft.
func (s *Service) Reject(ctx context.Context, id int64) (*Content, error) {
	return s.transition(ctx, id, StatusDraft)
}

// Archive retires published content.
func (s *Service) Archive(ctx context.Context, id int64) (*Content, error) {
	return s.transition(ctx, id, StatusArchived)
}

func (s *Service) transition(ctx context.Context, id int64, toStatus string) (*Content, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.CanTransitionTo(toStatus) {
		s.logger.Warn("invalid content transition",
			"content_id", id,
			"from", c.Status,
			"to", toStatus)
		return nil, internal.ErrInvalidContentStatus
	}

	fromStatus := c.Status
	if err := s.repo.UpdateStatus(id, toStatus); err != nil {
		s.logger.Error("failed to transition content", "error", err, "content_id", id)
		return nil, err
	}
	c.Status = toStatus

	evt := events.NewContentStatusChangedEvent(c.ID, c.SectionID, fromStatus, toStatus)
	if err := s.bus.PublishSync(ctx, evt); err != nil {
		s.logger.Error("failed to notify content subscribers", "error", err, "content_id", id)
	}

	s.logger.Info("content transitioned", "content_id", id, "from", fromStatus, "to", toStatus)
	return c, nil
}

// PendingCountBySection feeds the badge refresher: moderation queue depth
// per navigation section.
func (s *Service) PendingCountBySection(ctx context.Context) (map[string]int64, error) {
	return s.repo.PendingCountBySection()
}
