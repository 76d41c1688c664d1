package models

import (
	"gorm.io/gorm"
)

// Category is a user-defined label with a color. Categories carry no
// back-references; deleting one leaves dangling ids on tasks by design of the
// data model (tasks tolerate unknown category ids).
type Category struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Color       string `json:"color"`
	Description string `json:"description"`
	gorm.Model
}

// TableName specifies the table name for Category Model
func (Category) TableName() string {
	return "categories"
}
