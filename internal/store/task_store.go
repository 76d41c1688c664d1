package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard-api/internal/cache"
	"taskboard-api/internal/models"

	"gorm.io/gorm"
)

// ProjectDirectory is the narrow, read-only view of project data the task
// store needs for the category allow-list check. The project store implements
// it; keeping the interface this small keeps the store dependency
// one-directional (project store -> task store, never back).
type ProjectDirectory interface {
	// CategoryAllowed reports whether a task in the given project may use the
	// given category. Unknown projects impose no restriction.
	CategoryAllowed(projectID, categoryID string) (bool, error)
}

const statsCacheKey = "stats"
const statsCacheTTL = 30 * time.Second

// TaskStore owns the task collection. Enum fields are normalized at the
// storage boundary, membership changes are published on the bus, and every
// mutation records an activity entry and invalidates the stats aggregate.
type TaskStore struct {
	db       *gorm.DB
	activity *ActivityStore
	bus      *Bus
	projects ProjectDirectory
	stats    *cache.SimpleCache[string, models.TaskStats]
}

// NewTaskStore creates a task store backed by db, recording to activity and
// publishing domain events on bus.
func NewTaskStore(db *gorm.DB, activity *ActivityStore, bus *Bus) *TaskStore {
	return &TaskStore{
		db:       db,
		activity: activity,
		bus:      bus,
		stats:    cache.NewSimpleCache[string, models.TaskStats](),
	}
}

// SetProjectDirectory wires the project allow-list lookup. Called once at
// application wiring time, after both stores exist.
func (s *TaskStore) SetProjectDirectory(d ProjectDirectory) {
	s.projects = d
}

// ListOptions controls pagination, sorting and filtering of List.
type ListOptions struct {
	Page      int
	Limit     int
	SortAsc   bool
	CreatedBy string
	ProjectID string
}

// List returns one page of tasks plus the total count for the current filter.
func (s *TaskStore) List(opts ListOptions) ([]models.Task, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 5
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	query := s.db.Model(&models.Task{})
	if opts.CreatedBy != "" {
		query = query.Where("created_by = ?", opts.CreatedBy)
	}
	if opts.ProjectID != "" {
		query = query.Where("project_id = ?", opts.ProjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at desc"
	if opts.SortAsc {
		order = "created_at asc"
	}

	var tasks []models.Task
	err := query.Session(&gorm.Session{}).
		Order(order).
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return tasks, total, nil
}

// Get returns one task by id.
func (s *TaskStore) Get(id string) (models.Task, error) {
	return s.load(id)
}

// Add persists a new task, assigning an id if absent. If the task carries a
// project id, membership registration is published for the project store.
func (s *TaskStore) Add(actor models.Actor, task models.Task) (models.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return models.Task{}, &ValidationError{Msg: "task title is required"}
	}
	if task.ID == "" {
		task.ID = newID("task")
	}
	if task.CreatedBy == "" {
		task.CreatedBy = actor.ID
	}
	normalizeTask(&task)
	if err := s.checkCategory(task.ProjectID, task.CategoryID); err != nil {
		return models.Task{}, err
	}

	if err := s.db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	s.stats.Delete(statsCacheKey)
	s.activity.Log(actor, models.ActivityTaskCreated, task.ID, task.Title, "")
	s.bus.Publish(Event{Type: EventTaskCreated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	if task.ProjectID != "" {
		s.bus.Publish(Event{Type: EventTaskAttached, TaskID: task.ID, ProjectID: task.ProjectID, UserID: actor.ID})
	}
	return s.load(task.ID)
}

// Update replaces a task by id. On a project change it deregisters from the
// old project and registers with the new one; a transition into the done
// state is recorded as STATUS_CHANGED instead of TASK_UPDATED.
func (s *TaskStore) Update(actor models.Actor, task models.Task) (models.Task, error) {
	existing, err := s.load(task.ID)
	if err != nil {
		return models.Task{}, err
	}
	if strings.TrimSpace(task.Title) == "" {
		return models.Task{}, &ValidationError{Msg: "task title is required"}
	}
	normalizeTask(&task)
	if err := s.checkCategory(task.ProjectID, task.CategoryID); err != nil {
		return models.Task{}, err
	}

	task.Model = existing.Model
	if task.CreatedBy == "" {
		task.CreatedBy = existing.CreatedBy
	}
	if err := s.db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	s.stats.Delete(statsCacheKey)

	if existing.State != models.StateDone && task.State == models.StateDone {
		s.activity.Log(actor, models.ActivityStatusChanged, task.ID, task.Title, string(task.State))
	} else {
		s.activity.Log(actor, models.ActivityTaskUpdated, task.ID, task.Title, "")
	}

	if existing.ProjectID != task.ProjectID {
		if existing.ProjectID != "" {
			s.bus.Publish(Event{Type: EventTaskDetached, TaskID: task.ID, ProjectID: existing.ProjectID, UserID: actor.ID})
		}
		if task.ProjectID != "" {
			s.bus.Publish(Event{Type: EventTaskAttached, TaskID: task.ID, ProjectID: task.ProjectID, UserID: actor.ID})
		}
	}
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return s.load(task.ID)
}

// UpdateState is the narrow variant of Update restricted to the state field,
// so concurrent edits from other views are never overwritten. Calling it with
// the current state is a no-op: no activity entry, no event.
func (s *TaskStore) UpdateState(actor models.Actor, id string, state models.TaskState) (models.Task, error) {
	state, _ = ParseState(string(state))
	task, err := s.load(id)
	if err != nil {
		return models.Task{}, err
	}
	if task.State == state {
		return task, nil
	}
	if err := s.db.Model(&task).Update("state", state).Error; err != nil {
		return models.Task{}, err
	}
	task.State = state
	s.stats.Delete(statsCacheKey)
	s.activity.Log(actor, models.ActivityStatusChanged, task.ID, task.Title, string(state))
	s.bus.Publish(Event{Type: EventTaskStateChanged, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// Delete removes a task. A project member is deregistered from its project
// first; the project itself is untouched.
func (s *TaskStore) Delete(actor models.Actor, id string) error {
	task, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&task).Error; err != nil {
		return err
	}
	s.stats.Delete(statsCacheKey)
	if task.ProjectID != "" {
		s.bus.Publish(Event{Type: EventTaskDetached, TaskID: task.ID, ProjectID: task.ProjectID, UserID: actor.ID})
	}
	s.activity.Log(actor, models.ActivityTaskDeleted, task.ID, task.Title, "")
	s.bus.Publish(Event{Type: EventTaskDeleted, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return nil
}

// AddSubtask appends a subtask to a task and re-derives progress.
func (s *TaskStore) AddSubtask(actor models.Actor, taskID, title string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, &ValidationError{Msg: "subtask title is required"}
	}
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	task.Subtasks = append(task.Subtasks, models.Subtask{ID: newID("sub"), Title: title})
	if err := s.save(&task); err != nil {
		return models.Task{}, err
	}
	s.activity.Log(actor, models.ActivitySubtaskAdded, task.ID, task.Title, title)
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// ToggleSubtask flips a subtask's completed flag and re-derives progress.
func (s *TaskStore) ToggleSubtask(actor models.Actor, taskID, subtaskID string) (models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	idx := -1
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Task{}, &NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	task.Subtasks[idx].Completed = !task.Subtasks[idx].Completed
	if err := s.save(&task); err != nil {
		return models.Task{}, err
	}
	s.activity.Log(actor, models.ActivitySubtaskToggled, task.ID, task.Title, task.Subtasks[idx].Title)
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// DeleteSubtask removes a subtask and re-derives progress.
func (s *TaskStore) DeleteSubtask(actor models.Actor, taskID, subtaskID string) (models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	kept := task.Subtasks[:0]
	removed := ""
	for _, st := range task.Subtasks {
		if st.ID == subtaskID {
			removed = st.Title
			continue
		}
		kept = append(kept, st)
	}
	if removed == "" && len(kept) == len(task.Subtasks) {
		return models.Task{}, &NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	task.Subtasks = kept
	if err := s.save(&task); err != nil {
		return models.Task{}, err
	}
	s.activity.Log(actor, models.ActivitySubtaskDeleted, task.ID, task.Title, removed)
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// AddComment appends a comment authored by the actor.
func (s *TaskStore) AddComment(actor models.Actor, taskID, text string) (models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return models.Task{}, &ValidationError{Msg: "comment text is required"}
	}
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	task.Comments = append(task.Comments, models.Comment{
		ID:        newID("cmt"),
		AuthorID:  actor.ID,
		Author:    actor.Name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.save(&task); err != nil {
		return models.Task{}, err
	}
	s.activity.Log(actor, models.ActivityCommentAdded, task.ID, task.Title, "")
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// DeleteComment removes a comment by id.
func (s *TaskStore) DeleteComment(actor models.Actor, taskID, commentID string) (models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	kept := task.Comments[:0]
	found := false
	for _, c := range task.Comments {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return models.Task{}, &NotFoundError{Kind: "comment", ID: commentID}
	}
	task.Comments = kept
	if err := s.save(&task); err != nil {
		return models.Task{}, err
	}
	s.activity.Log(actor, models.ActivityCommentDeleted, task.ID, task.Title, "")
	s.bus.Publish(Event{Type: EventTaskUpdated, TaskID: task.ID, UserID: actor.ID, AssigneeID: task.AssigneeID})
	return task, nil
}

// Stats returns the task aggregate, served from cache between mutations.
func (s *TaskStore) Stats() (models.TaskStats, error) {
	if cached, ok := s.stats.Get(statsCacheKey); ok {
		return cached, nil
	}

	type row struct {
		Key   string
		Count int64
	}

	var stats models.TaskStats
	var byState []row
	if err := s.db.Model(&models.Task{}).
		Select("state as key, COUNT(*) as count").
		Group("state").
		Scan(&byState).Error; err != nil {
		return models.TaskStats{}, err
	}
	for _, r := range byState {
		stats.Total += r.Count
		switch models.TaskState(r.Key) {
		case models.StateDone:
			stats.Completed = r.Count
		case models.StateInProgress:
			stats.InProgress = r.Count
		}
	}

	var byPriority []row
	if err := s.db.Model(&models.Task{}).
		Select("priority as key, COUNT(*) as count").
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		return models.TaskStats{}, err
	}
	for _, r := range byPriority {
		switch models.TaskPriority(r.Key) {
		case models.PriorityHigh:
			stats.ByPriority.High = r.Count
		case models.PriorityMedium:
			stats.ByPriority.Medium = r.Count
		case models.PriorityLow:
			stats.ByPriority.Low = r.Count
		}
	}

	s.stats.Set(statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

// AttachProject moves a task into a project via its narrow write path. The
// actual membership bookkeeping happens in the project store's event handler.
func (s *TaskStore) AttachProject(actor models.Actor, taskID, projectID string) (models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.ProjectID == projectID {
		return task, nil
	}
	old := task.ProjectID
	if err := s.db.Model(&task).Update("project_id", projectID).Error; err != nil {
		return models.Task{}, err
	}
	task.ProjectID = projectID
	if old != "" {
		s.bus.Publish(Event{Type: EventTaskDetached, TaskID: taskID, ProjectID: old, UserID: actor.ID})
	}
	s.bus.Publish(Event{Type: EventTaskAttached, TaskID: taskID, ProjectID: projectID, UserID: actor.ID})
	return s.load(taskID)
}

// DetachProject clears a task's project association.
func (s *TaskStore) DetachProject(actor models.Actor, taskID string) (models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.ProjectID == "" {
		return task, nil
	}
	old := task.ProjectID
	if err := s.db.Model(&task).Update("project_id", "").Error; err != nil {
		return models.Task{}, err
	}
	task.ProjectID = ""
	s.bus.Publish(Event{Type: EventTaskDetached, TaskID: taskID, ProjectID: old, UserID: actor.ID})
	return task, nil
}

// ClearProject detaches every task of a deleted project. Tasks survive with a
// null project reference.
func (s *TaskStore) ClearProject(actor models.Actor, projectID string) ([]string, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Update("project_id", "").Error; err != nil {
		return nil, err
	}
	detached := make([]string, 0, len(tasks))
	for _, t := range tasks {
		detached = append(detached, t.ID)
		s.bus.Publish(Event{Type: EventTaskDetached, TaskID: t.ID, ProjectID: projectID, UserID: actor.ID})
	}
	return detached, nil
}

// TightenSchedule applies the project date cascade to one task: the deadline
// may only move earlier, the scheduled date only later. Dates a user set
// tighter than the project window are preserved. No membership events are
// republished from here.
func (s *TaskStore) TightenSchedule(taskID string, start, deadline *time.Time) (bool, error) {
	task, err := s.load(taskID)
	if err != nil {
		return false, err
	}
	changed := false
	if deadline != nil && (task.Deadline == nil || task.Deadline.After(*deadline)) {
		d := *deadline
		task.Deadline = &d
		changed = true
	}
	if start != nil && (task.ScheduledDate == nil || task.ScheduledDate.Before(*start)) {
		d := *start
		task.ScheduledDate = &d
		changed = true
	}
	if !changed {
		return false, nil
	}
	if err := s.db.Model(&task).Updates(map[string]any{
		"deadline":       task.Deadline,
		"scheduled_date": task.ScheduledDate,
	}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *TaskStore) load(id string) (models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, &NotFoundError{Kind: "task", ID: id}
		}
		return models.Task{}, err
	}
	normalizeTask(&task)
	return task, nil
}

// save re-normalizes and persists a loaded task; shared by the subtask and
// comment paths so progress and persistence stay consistent.
func (s *TaskStore) save(task *models.Task) error {
	normalizeTask(task)
	if err := s.db.Save(task).Error; err != nil {
		return fmt.Errorf("save task %s: %w", task.ID, err)
	}
	s.stats.Delete(statsCacheKey)
	return nil
}

func (s *TaskStore) checkCategory(projectID, categoryID string) error {
	if s.projects == nil || projectID == "" || categoryID == "" {
		return nil
	}
	allowed, err := s.projects.CategoryAllowed(projectID, categoryID)
	if err != nil {
		return err
	}
	if !allowed {
		return &ValidationError{Msg: fmt.Sprintf("category %q is not allowed by project %q", categoryID, projectID)}
	}
	return nil
}
