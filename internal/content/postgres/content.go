package postgres

import (
	"github.com/tourismcms/tourism-cms/internal/content"
	contentDatamodel "github.com/tourismcms/tourism-cms/internal/core/datamodel/content"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) content.RepositoryAPI {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(c *content.Content) error {
	dm := c.ToDataModel()
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	c.ID = dm.ID
	c.CreatedAt = dm.CreatedAt
	c.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *ContentRepository) GetByID(id int64) (*content.Content, error) {
	var dm contentDatamodel.Content
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return content.FromDataModel(&dm), nil
}

func (r *ContentRepository) GetBySlug(slug string) (*content.Content, error) {
	var dm contentDatamodel.Content
	err := r.db.Where("slug = ?", slug).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return content.FromDataModel(&dm), nil
}

func (r *ContentRepository) ListBySection(sectionID string, status string) ([]*content.Content, int64, error) {
	query := r.db.Model(&contentDatamodel.Content{}).Where("section_id = ?", sectionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*contentDatamodel.Content
	if err := query.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*content.Content, 0, len(rows))
	for _, dm := range rows {
		items = append(items, content.FromDataModel(dm))
	}
	return items, total, nil
}

func (r *ContentRepository) Update(c *content.Content) error {
	return r.db.Model(&contentDatamodel.Content{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"title":   c.Title,
			"summary": c.Summary,
			"body":    c.Body,
		}).Error
}

func (r *ContentRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&contentDatamodel.Content{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// PendingCountBySection counts the moderation queue per section in one
// grouped query.
func (r *ContentRepository) PendingCountBySection() (map[string]int64, error) {
	type row struct {
		SectionID string
		Total     int64
	}

	var rows []row
	err := r.db.Model(&contentDatamodel.Content{}).
		Select("section_id, COUNT(*) AS total").
		Where("status = ?", content.StatusPending).
		Group("section_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.SectionID] = r.Total
	}
	return counts, nil
}
