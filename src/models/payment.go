package models

import (
	"accesscrate/src/types"

	"github.com/google/uuid"
)

// Payment is one checkout attempt. The uuid primary key doubles as the eSewa
// transaction_uuid, so the gateway callback can be correlated without a
// separate reference column.
type Payment struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	UserID      uint                `json:"user_id,omitempty"`
	EventID     uint                `json:"event_id,omitempty"`
	TotalAmount float64             `json:"totalAmount"`
	Status      types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`

	// Populated only when the payment completes.
	EsewaTransactionID *string `json:"esewaTransactionId,omitempty"`

	User  *User         `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Event *Event        `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Items []PaymentItem `gorm:"foreignKey:payment_id" json:"items,omitempty"`

	types.Timestamps
}

// PaymentItem captures one ticket line with the unit price read from the
// stored ticket at initiation time. Verify trusts these rows, never the
// callback body.
type PaymentItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PaymentID uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`
	TicketID  uint      `json:"ticket_id,omitempty"`
	Quantity  uint      `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`

	Ticket *Ticket `gorm:"foreignKey:ticket_id" json:"ticket,omitempty"`
}
