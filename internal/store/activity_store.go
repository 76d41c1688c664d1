package store

import (
	"log"
	"time"

	"taskboard-api/internal/models"

	"gorm.io/gorm"
)

// DefaultActivityCap is the maximum number of retained activity entries.
const DefaultActivityCap = 100

// ActivityStore owns the append-only activity log. The log is capped: once it
// exceeds the cap, the oldest entries (by insertion order) are evicted.
type ActivityStore struct {
	db  *gorm.DB
	cap int
}

// NewActivityStore creates an activity store with the default cap.
func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db, cap: DefaultActivityCap}
}

// Append is the single structured constructor for log entries. It assigns the
// timestamp when unset, persists the entry and evicts beyond the cap.
func (s *ActivityStore) Append(entry models.Activity) (models.Activity, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return models.Activity{}, err
	}
	if err := s.evict(); err != nil {
		return models.Activity{}, err
	}
	return entry, nil
}

// Log is the quick-log convenience wrapper over Append. Logging must never
// fail the mutation that triggered it, so errors are reported and dropped.
func (s *ActivityStore) Log(actor models.Actor, kind models.ActivityType, taskID, taskTitle, details string) {
	_, err := s.Append(models.Activity{
		UserID:    actor.ID,
		UserName:  actor.Name,
		Type:      kind,
		TaskID:    taskID,
		TaskTitle: taskTitle,
		Details:   details,
	})
	if err != nil {
		log.Printf("activity: failed to record %s: %v", kind, err)
	}
}

// Recent returns up to n entries sorted by timestamp descending.
func (s *ActivityStore) Recent(n int) ([]models.Activity, error) {
	if n < 1 {
		n = 1
	}
	var entries []models.Activity
	err := s.db.Order("timestamp desc, id desc").Limit(n).Find(&entries).Error
	return entries, err
}

// List returns all retained entries in insertion order.
func (s *ActivityStore) List() ([]models.Activity, error) {
	var entries []models.Activity
	err := s.db.Order("id asc").Find(&entries).Error
	return entries, err
}

func (s *ActivityStore) evict() error {
	var count int64
	if err := s.db.Model(&models.Activity{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= int64(s.cap) {
		return nil
	}
	return s.db.Exec(
		"DELETE FROM activities WHERE id IN (SELECT id FROM activities ORDER BY id ASC LIMIT ?)",
		count-int64(s.cap),
	).Error
}
