package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a named grouping of tasks with optional shared date constraints.
// TaskIDs is the authoritative membership list and is maintained by the store
// layer only; it must always mirror the set of tasks whose ProjectID points here.
type Project struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"createdBy" gorm:"column:created_by"`
	TaskIDs     []string   `json:"taskIds" gorm:"serializer:json"`
	Color       string     `json:"color"`
	StartDate   *time.Time `json:"startDate" gorm:"column:start_date"`
	Deadline    *time.Time `json:"deadline" gorm:"column:deadline"`
	// CategoryIDs, when non-empty, restricts which categories member tasks may use.
	CategoryIDs []string `json:"categoryIds" gorm:"serializer:json"`
	gorm.Model
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}

// HasTask reports whether taskID is already in the membership list.
func (p *Project) HasTask(taskID string) bool {
	for _, id := range p.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// AllowsCategory reports whether a member task may use the given category.
// An empty allow-list means no restriction.
func (p *Project) AllowsCategory(categoryID string) bool {
	if len(p.CategoryIDs) == 0 || categoryID == "" {
		return true
	}
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
