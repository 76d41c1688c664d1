package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskState represents the workflow state of a task
type TaskState string

const (
	StateTodo       TaskState = "todo"
	StateInProgress TaskState = "inProgress"
	StateDone       TaskState = "done"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Actor identifies the user performing a store operation.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subtask is owned exclusively by its parent task and persisted inline with it.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Comment is owned exclusively by its parent task and persisted inline with it.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task represents a task in the system
type Task struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	Title         string       `json:"title" gorm:"not null"`
	Description   string       `json:"description"`
	AssigneeID    string       `json:"assigneeId" gorm:"column:assignee_id"`
	State         TaskState    `json:"state" gorm:"not null;default:'todo'"`
	Priority      TaskPriority `json:"priority" gorm:"default:'medium'"`
	CategoryID    string       `json:"categoryId" gorm:"column:category_id"`
	ProjectID     string       `json:"projectId" gorm:"column:project_id;index"`
	CreatedBy     string       `json:"createdBy" gorm:"column:created_by"`
	Deadline      *time.Time   `json:"deadline" gorm:"column:deadline"`
	ScheduledDate *time.Time   `json:"scheduledDate" gorm:"column:scheduled_date"`
	Subtasks      []Subtask    `json:"subtasks" gorm:"serializer:json"`
	Comments      []Comment    `json:"comments" gorm:"serializer:json"`
	Progress      int          `json:"progress" gorm:"default:0"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// TaskStats is the aggregate recomputed after every task mutation.
type TaskStats struct {
	Total      int64         `json:"total"`
	Completed  int64         `json:"completed"`
	InProgress int64         `json:"inProgress"`
	ByPriority PriorityStats `json:"byPriority"`
}

// PriorityStats breaks the task total down by priority.
type PriorityStats struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}
