package model

import (
	"time"

	"gorm.io/gorm"
)

// Category is self-referential: a row with ParentID set is a subcategory.
// The storefront hierarchy is two levels deep (category -> subcategory).
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `json:"image_url"`
	ParentID    *uint          `gorm:"index" json:"parent_id,omitempty"`
	Position    int            `gorm:"default:0" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products []Product  `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// HasSubcategories reports whether Children were loaded and non-empty.
// Callers must Preload("Children") first.
func (c *Category) HasSubcategories() bool {
	return len(c.Children) > 0
}
