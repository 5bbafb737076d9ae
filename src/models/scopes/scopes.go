package scopes

import (
	"accesscrate/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func ForOrganizer(organizerId uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organizer_id = ?", organizerId)
	}
}

func WithRole(role types.Role) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", role)
	}
}

func PendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "pending")
}
