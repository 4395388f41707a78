package navigation

import "time"

// NavigationItem is one row of the statically authored tree. Item ids are
// stable strings chosen by the content team (not surrogate keys) so the
// front-end can reference sections by name.
type NavigationItem struct {
	ID           int64     `gorm:"primaryKey"`
	ItemID       string    `gorm:"column:item_id;uniqueIndex;not null"`
	ParentItemID *string   `gorm:"column:parent_item_id;index"`
	Label        string    `gorm:"column:label;not null"`
	Icon         string    `gorm:"column:icon"`
	Path         *string   `gorm:"column:path"`
	ItemType     string    `gorm:"column:item_type;not null"`
	Position     int       `gorm:"column:position;default:0"`
	BadgeCount   *int      `gorm:"column:badge_count"`
	BadgeType    *string   `gorm:"column:badge_type"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (NavigationItem) TableName() string {
	return "navigation_items"
}

// NavigationItemRole grants one role visibility of one item.
type NavigationItemRole struct {
	ID        int64     `gorm:"primaryKey"`
	ItemID    string    `gorm:"column:item_id;index;not null"`
	Role      string    `gorm:"column:role;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (NavigationItemRole) TableName() string {
	return "navigation_item_roles"
}
