package models

import (
	"time"

	"accesscrate/src/types"
)

type Ticket struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	EventID        uint      `gorm:"index:idx_tickets_event_type,unique" json:"event_id,omitempty"`
	TicketType     string    `gorm:"index:idx_tickets_event_type,unique" json:"ticketType,omitempty"`
	Price          float64   `json:"price"`
	Quantity       uint      `json:"quantity"`
	SoldCount      uint      `json:"sold_count"`
	SalesStartDate time.Time `json:"sales_start_date,omitempty"`
	SalesEndDate   time.Time `json:"sales_end_date,omitempty"`

	// Derived from the sales window; rewritten alongside the event flags.
	IsActive bool `json:"isActive"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`

	types.Timestamps
}

func (t *Ticket) Remaining() uint {
	if t.SoldCount >= t.Quantity {
		return 0
	}
	return t.Quantity - t.SoldCount
}
