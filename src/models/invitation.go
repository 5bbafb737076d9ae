package models

import (
	"time"

	"accesscrate/src/types"
)

type Invitation struct {
	ID               uint                   `gorm:"primarykey" json:"id"`
	FullName         string                 `json:"full_name,omitempty"`
	Email            string                 `gorm:"uniqueIndex" json:"email,omitempty"`
	OwnerName        string                 `json:"owner_name,omitempty"`
	ContactInfo      string                 `json:"contact_info,omitempty"`
	Role             types.Role             `gorm:"default:'organizer'" json:"role,omitempty"`
	Status           types.InvitationStatus `gorm:"default:'pending'" json:"status,omitempty"`
	InvitedBy        uint                   `json:"invited_by,omitempty"`
	InvitationToken  string                 `json:"-"`
	InvitationExpiry time.Time              `json:"-"`

	Inviter User `gorm:"foreignKey:invited_by" json:"-"`

	types.Timestamps
}
