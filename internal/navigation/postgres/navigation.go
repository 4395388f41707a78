package postgres

import (
	"sort"

	navDatamodel "github.com/tourismcms/tourism-cms/internal/core/datamodel/navigation"
	"github.com/tourismcms/tourism-cms/internal/navigation"
	"gorm.io/gorm"
)

type NavigationRepository struct {
	db *gorm.DB
}

func NewNavigationRepository(db *gorm.DB) navigation.RepositoryAPI {
	return &NavigationRepository{db: db}
}

// LoadTree reads the item and role rows and assembles the forest. Children
// are ordered by position, then item id for rows sharing a position.
func (r *NavigationRepository) LoadTree() ([]*navigation.Item, error) {
	var rows []*navDatamodel.NavigationItem
	if err := r.db.Order("position ASC, item_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	var roleRows []*navDatamodel.NavigationItemRole
	if err := r.db.Find(&roleRows).Error; err != nil {
		return nil, err
	}

	rolesByItem := make(map[string][]navigation.UserRole)
	for _, rr := range roleRows {
		rolesByItem[rr.ItemID] = append(rolesByItem[rr.ItemID], navigation.UserRole(rr.Role))
	}
	for _, roles := range rolesByItem {
		sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	}

	items := make(map[string]*navigation.Item, len(rows))
	for _, row := range rows {
		items[row.ItemID] = toDomain(row, rolesByItem[row.ItemID])
	}

	var roots []*navigation.Item
	for _, row := range rows {
		it := items[row.ItemID]
		if row.ParentItemID == nil || *row.ParentItemID == "" {
			roots = append(roots, it)
			continue
		}
		parent, ok := items[*row.ParentItemID]
		if !ok {
			// Orphan rows surface as a validation failure downstream
			// instead of silently vanishing from the sidebar.
			roots = append(roots, it)
			continue
		}
		parent.Subsections = append(parent.Subsections, it)
	}

	return roots, nil
}

func toDomain(row *navDatamodel.NavigationItem, roles []navigation.UserRole) *navigation.Item {
	it := &navigation.Item{
		ID:    row.ItemID,
		Label: row.Label,
		Icon:  row.Icon,
		Type:  navigation.ItemType(row.ItemType),
		Roles: roles,
	}
	if row.Path != nil {
		it.Path = *row.Path
	}
	if row.BadgeCount != nil && row.BadgeType != nil {
		it.Badge = &navigation.Badge{
			Count: *row.BadgeCount,
			Type:  navigation.BadgeType(*row.BadgeType),
		}
	}
	return it
}

// SaveBadge persists a badge override; nil clears both columns.
func (r *NavigationRepository) SaveBadge(itemID string, badge *navigation.Badge) error {
	updates := map[string]interface{}{
		"badge_count": nil,
		"badge_type":  nil,
	}
	if badge != nil {
		updates["badge_count"] = badge.Count
		updates["badge_type"] = string(badge.Type)
	}
	return r.db.Model(&navDatamodel.NavigationItem{}).
		Where("item_id = ?", itemID).
		Updates(updates).Error
}

func (r *NavigationRepository) CreateItem(dto navigation.CreateItemDTO) error {
	row := &navDatamodel.NavigationItem{
		ItemID:   dto.ID,
		Label:    dto.Label,
		Icon:     dto.Icon,
		ItemType: dto.Type,
		Position: dto.Position,
	}
	if dto.Path != "" {
		path := dto.Path
		row.Path = &path
	}
	if dto.ParentID != "" {
		parentID := dto.ParentID
		row.ParentItemID = &parentID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return replaceRoles(tx, dto.ID, dto.Roles)
	})
}

func (r *NavigationRepository) UpdateItem(itemID string, dto navigation.UpdateItemDTO) error {
	updates := map[string]interface{}{
		"label":    dto.Label,
		"icon":     dto.Icon,
		"position": dto.Position,
	}
	if dto.Path != "" {
		updates["path"] = dto.Path
	} else {
		updates["path"] = nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&navDatamodel.NavigationItem{}).
			Where("item_id = ?", itemID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceRoles(tx, itemID, dto.Roles)
	})
}

// DeleteItem removes an item together with its whole subtree and the role
// grants of every removed row.
func (r *NavigationRepository) DeleteItem(itemID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := collectSubtree(tx, itemID)
		if err != nil {
			return err
		}
		if err := tx.Where("item_id IN ?", ids).
			Delete(&navDatamodel.NavigationItemRole{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id IN ?", ids).
			Delete(&navDatamodel.NavigationItem{}).Error
	})
}

func collectSubtree(tx *gorm.DB, itemID string) ([]string, error) {
	ids := []string{itemID}
	frontier := []string{itemID}
	for len(frontier) > 0 {
		var children []string
		err := tx.Model(&navDatamodel.NavigationItem{}).
			Where("parent_item_id IN ?", frontier).
			Pluck("item_id", &children).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

func replaceRoles(tx *gorm.DB, itemID string, roles []string) error {
	if err := tx.Where("item_id = ?", itemID).
		Delete(&navDatamodel.NavigationItemRole{}).Error; err != nil {
		return err
	}
	for _, role := range roles {
		row := &navDatamodel.NavigationItemRole{ItemID: itemID, Role: role}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}
