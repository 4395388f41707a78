package content

import "time"

type Content struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	Summary   string    `gorm:"column:summary"`
	Body      string    `gorm:"column:body"`
	SectionID string    `gorm:"column:section_id;index;not null"`
	Status    string    `gorm:"column:status;not null;default:draft"`
	AuthorID  int64     `gorm:"column:author_id;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Content) TableName() string {
	return "contents"
}
