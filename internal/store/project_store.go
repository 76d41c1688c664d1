package store

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"taskboard-api/internal/models"

	"gorm.io/gorm"
)

// projectPalette is the fixed set of default project colors.
var projectPalette = []string{
	"#e57373", "#64b5f6", "#81c784", "#ffd54f",
	"#ba68c8", "#4dd0e1", "#f06292", "#a1887f",
}

// ProjectStore owns the project collection and is the sole writer of the
// TaskIDs membership lists. It subscribes to the task store's membership
// events on the bus, so the dependency between the two stores stays
// one-directional: this store calls into the task store, never the reverse.
type ProjectStore struct {
	db       *gorm.DB
	tasks    *TaskStore
	activity *ActivityStore
	bus      *Bus
}

// NewProjectStore creates a project store and subscribes it to membership
// events published by the task store.
func NewProjectStore(db *gorm.DB, tasks *TaskStore, activity *ActivityStore, bus *Bus) *ProjectStore {
	s := &ProjectStore{db: db, tasks: tasks, activity: activity, bus: bus}
	bus.Subscribe(s.onTaskEvent)
	return s
}

// onTaskEvent keeps TaskIDs synchronized with task-side project references.
// Membership sync must never fail the originating task write, so errors are
// logged and dropped here.
func (s *ProjectStore) onTaskEvent(e Event) {
	switch e.Type {
	case EventTaskAttached:
		if err := s.registerMember(e.ProjectID, e.TaskID); err != nil {
			log.Printf("project %s: failed to register task %s: %v", e.ProjectID, e.TaskID, err)
		}
	case EventTaskDetached:
		if err := s.deregisterMember(e.ProjectID, e.TaskID); err != nil {
			log.Printf("project %s: failed to deregister task %s: %v", e.ProjectID, e.TaskID, err)
		}
	}
}

// List returns all projects.
func (s *ProjectStore) List() ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Order("created_at desc").Find(&projects).Error
	return projects, err
}

// Get returns one project by id.
func (s *ProjectStore) Get(id string) (models.Project, error) {
	return s.load(id)
}

// Add persists a new project, filling defaults: a random palette color and an
// empty membership list. Client-supplied TaskIDs are ignored; membership is
// store-maintained only.
func (s *ProjectStore) Add(actor models.Actor, project models.Project) (models.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return models.Project{}, &ValidationError{Msg: "project name is required"}
	}
	if project.ID == "" {
		project.ID = newID("proj")
	}
	if project.Color == "" {
		project.Color = projectPalette[rand.Intn(len(projectPalette))]
	}
	if project.CreatedBy == "" {
		project.CreatedBy = actor.ID
	}
	project.TaskIDs = []string{}

	if err := s.db.Create(&project).Error; err != nil {
		return models.Project{}, err
	}
	s.activity.Log(actor, models.ActivityProjectCreated, "", "", project.Name)
	s.bus.Publish(Event{Type: EventProjectCreated, ProjectID: project.ID, UserID: actor.ID})
	return project, nil
}

// Update replaces a project by id. The membership list is preserved from the
// stored record, and when the project's own dates changed the cascade is
// re-run over all current members.
func (s *ProjectStore) Update(actor models.Actor, project models.Project) (models.Project, error) {
	existing, err := s.load(project.ID)
	if err != nil {
		return models.Project{}, err
	}
	if strings.TrimSpace(project.Name) == "" {
		return models.Project{}, &ValidationError{Msg: "project name is required"}
	}
	project.Model = existing.Model
	project.TaskIDs = existing.TaskIDs
	if project.CreatedBy == "" {
		project.CreatedBy = existing.CreatedBy
	}
	if err := s.db.Save(&project).Error; err != nil {
		return models.Project{}, err
	}
	if !datesEqual(existing.StartDate, project.StartDate) || !datesEqual(existing.Deadline, project.Deadline) {
		s.cascade(&project)
	}
	s.activity.Log(actor, models.ActivityProjectUpdated, "", "", project.Name)
	s.bus.Publish(Event{Type: EventProjectUpdated, ProjectID: project.ID, UserID: actor.ID})
	return project, nil
}

// Delete removes a project and detaches (never deletes) its member tasks.
func (s *ProjectStore) Delete(actor models.Actor, id string) error {
	project, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&project).Error; err != nil {
		return err
	}
	// Project row is gone first, so the detach events below find nothing to
	// deregister and no-op.
	if _, err := s.tasks.ClearProject(actor, id); err != nil {
		return err
	}
	s.activity.Log(actor, models.ActivityProjectDeleted, "", "", project.Name)
	s.bus.Publish(Event{Type: EventProjectDeleted, ProjectID: id, UserID: actor.ID})
	return nil
}

// AddTask moves a task into the project. Idempotent: adding a current member
// is a no-op. On insert the project's date window is cascaded onto the task.
func (s *ProjectStore) AddTask(actor models.Actor, projectID, taskID string) (models.Project, error) {
	project, err := s.load(projectID)
	if err != nil {
		return models.Project{}, err
	}
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return models.Project{}, err
	}
	if project.HasTask(taskID) && task.ProjectID == projectID {
		return project, nil
	}
	if _, err := s.tasks.AttachProject(actor, taskID, projectID); err != nil {
		return models.Project{}, err
	}
	return s.load(projectID)
}

// RemoveTask drops a task from the project. Previously cascaded dates are not
// reverted.
func (s *ProjectStore) RemoveTask(actor models.Actor, projectID, taskID string) (models.Project, error) {
	project, err := s.load(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !project.HasTask(taskID) {
		return project, nil
	}
	if _, err := s.tasks.DetachProject(actor, taskID); err != nil {
		return models.Project{}, err
	}
	return s.load(projectID)
}

// SetDeadline updates the project deadline and re-runs the tighten-only
// cascade against all current members.
func (s *ProjectStore) SetDeadline(actor models.Actor, projectID string, deadline *time.Time) (models.Project, error) {
	project, err := s.load(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.db.Model(&project).Update("deadline", deadline).Error; err != nil {
		return models.Project{}, err
	}
	project.Deadline = deadline
	s.cascade(&project)
	s.activity.Log(actor, models.ActivityProjectUpdated, "", "", describeDateChange(project.Name, "deadline", deadline))
	s.bus.Publish(Event{Type: EventProjectUpdated, ProjectID: projectID, UserID: actor.ID})
	return project, nil
}

// SetStartDate updates the project start date and re-runs the cascade.
func (s *ProjectStore) SetStartDate(actor models.Actor, projectID string, start *time.Time) (models.Project, error) {
	project, err := s.load(projectID)
	if err != nil {
		return models.Project{}, err
	}
	if err := s.db.Model(&project).Update("start_date", start).Error; err != nil {
		return models.Project{}, err
	}
	project.StartDate = start
	s.cascade(&project)
	s.activity.Log(actor, models.ActivityProjectUpdated, "", "", describeDateChange(project.Name, "start date", start))
	s.bus.Publish(Event{Type: EventProjectUpdated, ProjectID: projectID, UserID: actor.ID})
	return project, nil
}

// CategoryAllowed implements the task store's ProjectDirectory. Unknown
// projects impose no restriction.
func (s *ProjectStore) CategoryAllowed(projectID, categoryID string) (bool, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, err
	}
	return project.AllowsCategory(categoryID), nil
}

func (s *ProjectStore) registerMember(projectID, taskID string) error {
	project, err := s.load(projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if !project.HasTask(taskID) {
		project.TaskIDs = append(project.TaskIDs, taskID)
		if err := s.saveMembership(&project); err != nil {
			return err
		}
	}
	_, err = s.tasks.TightenSchedule(taskID, project.StartDate, project.Deadline)
	return err
}

func (s *ProjectStore) deregisterMember(projectID, taskID string) error {
	project, err := s.load(projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if !project.HasTask(taskID) {
		return nil
	}
	kept := make([]string, 0, len(project.TaskIDs)-1)
	for _, id := range project.TaskIDs {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	project.TaskIDs = kept
	return s.saveMembership(&project)
}

// saveMembership writes the TaskIDs column. The write must go through the
// schema field, not a raw column value, so the JSON serializer applies;
// Select forces the update even when the list is empty.
func (s *ProjectStore) saveMembership(project *models.Project) error {
	return s.db.Model(project).
		Select("task_ids").
		Updates(models.Project{TaskIDs: project.TaskIDs}).Error
}

// cascade re-applies the tighten-only date rule to every current member.
func (s *ProjectStore) cascade(project *models.Project) {
	for _, taskID := range project.TaskIDs {
		if _, err := s.tasks.TightenSchedule(taskID, project.StartDate, project.Deadline); err != nil {
			log.Printf("project %s: cascade to task %s failed: %v", project.ID, taskID, err)
		}
	}
}

func (s *ProjectStore) load(id string) (models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, &NotFoundError{Kind: "project", ID: id}
		}
		return models.Project{}, err
	}
	return project, nil
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func describeDateChange(name, field string, d *time.Time) string {
	if d == nil {
		return fmt.Sprintf("%s: %s cleared", name, field)
	}
	return fmt.Sprintf("%s: %s set to %s", name, field, d.Format("2006-01-02"))
}
