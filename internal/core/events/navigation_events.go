package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeSidebarChanged     = "sidebar.changed"
	EventTypeBadgeUpdated       = "navigation.badge_updated"
	EventTypeNavigationReloaded = "navigation.reloaded"
)

// SidebarChangedEvent fans out every sidebar state transition so that all UI
// surfaces observing the same viewer stay on the single source of truth.
type SidebarChangedEvent struct {
	BaseEvent
	UserID           int64    `json:"user_id"`
	ExpandedSections []string `json:"expanded_sections"`
	ActiveSection    string   `json:"active_section"`
}

func NewSidebarChangedEvent(userID int64, expanded []string, active string) *SidebarChangedEvent {
	return &SidebarChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSidebarChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":           userID,
				"expanded_sections": expanded,
				"active_section":    active,
			},
		},
		UserID:           userID,
		ExpandedSections: expanded,
		ActiveSection:    active,
	}
}

type BadgeUpdatedEvent struct {
	BaseEvent
	SectionID string `json:"section_id"`
	Count     int    `json:"count"`
	BadgeType string `json:"badge_type"`
	Cleared   bool   `json:"cleared"`
}

func NewBadgeUpdatedEvent(sectionID string, count int, badgeType string, cleared bool) *BadgeUpdatedEvent {
	return &BadgeUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBadgeUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"section_id": sectionID,
				"count":      count,
				"badge_type": badgeType,
				"cleared":    cleared,
			},
		},
		SectionID: sectionID,
		Count:     count,
		BadgeType: badgeType,
		Cleared:   cleared,
	}
}

type NavigationReloadedEvent struct {
	BaseEvent
	ItemCount int `json:"item_count"`
}

func NewNavigationReloadedEvent(itemCount int) *NavigationReloadedEvent {
	return &NavigationReloadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNavigationReloaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"item_count": itemCount,
			},
		},
		ItemCount: itemCount,
	}
}
