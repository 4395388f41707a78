package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeContentStatusChanged = "content.status_changed"

// ContentStatusChangedEvent fires on every workflow transition. The badge
// refresher listens for it to re-count moderation queues per section.
type ContentStatusChangedEvent struct {
	BaseEvent
	ContentID  int64  `json:"content_id"`
	SectionID  string `json:"section_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func NewContentStatusChangedEvent(contentID int64, sectionID, fromStatus, toStatus string) *ContentStatusChangedEvent {
	return &ContentStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeContentStatusChanged,
			Timestamp: time.Now(),
		},
		ContentID:  contentID,
		SectionID:  sectionID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
}
