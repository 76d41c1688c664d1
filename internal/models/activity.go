package models

import "time"

// ActivityType classifies an activity-log entry.
type ActivityType string

const (
	ActivityTaskCreated    ActivityType = "TASK_CREATED"
	ActivityTaskUpdated    ActivityType = "TASK_UPDATED"
	ActivityTaskDeleted    ActivityType = "TASK_DELETED"
	ActivityStatusChanged  ActivityType = "STATUS_CHANGED"
	ActivitySubtaskAdded   ActivityType = "SUBTASK_ADDED"
	ActivitySubtaskToggled ActivityType = "SUBTASK_TOGGLED"
	ActivitySubtaskDeleted ActivityType = "SUBTASK_DELETED"
	ActivityCommentAdded   ActivityType = "COMMENT_ADDED"
	ActivityCommentDeleted ActivityType = "COMMENT_DELETED"
	ActivityProjectCreated ActivityType = "PROJECT_CREATED"
	ActivityProjectUpdated ActivityType = "PROJECT_UPDATED"
	ActivityProjectDeleted ActivityType = "PROJECT_DELETED"
)

// Activity is one entry of the append-only recent-activity feed.
// The auto-increment ID preserves insertion order for eviction.
type Activity struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    string       `json:"userId" gorm:"column:user_id"`
	UserName  string       `json:"userName" gorm:"column:user_name"`
	Type      ActivityType `json:"type" gorm:"not null"`
	Timestamp time.Time    `json:"timestamp" gorm:"index"`
	TaskID    string       `json:"taskId,omitempty" gorm:"column:task_id"`
	TaskTitle string       `json:"taskTitle,omitempty" gorm:"column:task_title"`
	Details   string       `json:"details,omitempty"`
}

// TableName specifies the table name for Activity Model
func (Activity) TableName() string {
	return "activities"
}
