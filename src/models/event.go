package models

import (
	"time"

	"accesscrate/src/types"
)

// Event derived flags (EventType, IsActive, IsTicketsAvailable) are owned by
// the lifecycle evaluator. They are stored for query filtering and rewritten
// on every read/write path plus the periodic sweep, never set by hand.
type Event struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"uniqueIndex" json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	EventPic    string          `json:"event_pic,omitempty"`
	Date        time.Time       `gorm:"index:idx_events_date_venue,unique" json:"date,omitempty"`
	Venue       string          `gorm:"index:idx_events_date_venue,unique" json:"venue,omitempty"`
	CategoryID  uint            `json:"category_id,omitempty"`
	OrganizerID uint            `json:"organizer_id,omitempty"`
	IsEntryFree bool            `json:"isEntryFree"`
	Interested  uint            `json:"interested"`
	EventType   types.EventType `gorm:"default:'upcoming'" json:"eventType,omitempty"`
	IsActive    bool            `json:"isActive"`

	// True iff the event has at least one tier with units left.
	IsTicketsAvailable bool `json:"isTicketsAvailable"`

	Category  *Category `gorm:"foreignKey:category_id" json:"category,omitempty"`
	Organizer *User     `gorm:"foreignKey:organizer_id" json:"organizer,omitempty"`
	Tickets   []Ticket  `gorm:"foreignKey:event_id" json:"tickets,omitempty"`

	TicketRange *types.TicketRange `gorm:"-" json:"ticketRange,omitempty"`

	types.Timestamps
}
