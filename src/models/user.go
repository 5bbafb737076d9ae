package models

import (
	"accesscrate/src/types"
)

// User covers all three principals: regular users, invited organizers and
// the super-admin, distinguished by Role.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Password     string     `json:"-"`
	Role         types.Role `gorm:"default:'user'" json:"role,omitempty"`
	ProfilePic   string     `json:"profile_pic,omitempty"`
	ContactInfo  string     `json:"contact_info,omitempty"`
	About        string     `json:"about,omitempty"`
	RefreshToken string     `json:"-"`

	Events   []Event   `gorm:"foreignKey:organizer_id" json:"events,omitempty"`
	Payments []Payment `gorm:"foreignKey:user_id" json:"payments,omitempty"`

	types.Timestamps
}
