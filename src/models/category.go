package models

import "accesscrate/src/types"

type Category struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`

	Events []Event `gorm:"foreignKey:category_id" json:"events,omitempty"`

	types.Timestamps
}
