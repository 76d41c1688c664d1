package store

import (
	"fmt"
	"log"
	"time"

	"taskboard-api/internal/models"
)

// ParseState maps a persisted state tag to a TaskState. The persisted form is
// untyped text, so unrecognized tags are downgraded to StateTodo; defaulted
// reports whether that happened.
func ParseState(raw string) (state models.TaskState, defaulted bool) {
	switch models.TaskState(raw) {
	case models.StateTodo, models.StateInProgress, models.StateDone:
		return models.TaskState(raw), false
	}
	return models.StateTodo, true
}

// ParsePriority is the priority counterpart of ParseState; unrecognized tags
// downgrade to PriorityMedium.
func ParsePriority(raw string) (priority models.TaskPriority, defaulted bool) {
	switch models.TaskPriority(raw) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return models.TaskPriority(raw), false
	}
	return models.PriorityMedium, true
}

// normalizeTask coerces enum fields to defined values and re-derives progress.
// It is applied once at the storage boundary (on every load and before every
// save), never scattered across call sites. Defaulted enum values are logged
// as warnings and never fail the operation.
func normalizeTask(t *models.Task) {
	// An empty tag means "not provided" and takes the default silently; only
	// a non-empty unrecognized tag is drift worth warning about.
	state, defaulted := ParseState(string(t.State))
	if defaulted && t.State != "" {
		log.Printf("warning: task %s: unrecognized state %q, defaulting to %q", t.ID, t.State, state)
	}
	t.State = state

	priority, defaulted := ParsePriority(string(t.Priority))
	if defaulted && t.Priority != "" {
		log.Printf("warning: task %s: unrecognized priority %q, defaulting to %q", t.ID, t.Priority, priority)
	}
	t.Priority = priority

	recomputeProgress(t)
}

// recomputeProgress derives progress from the subtask completion ratio when
// subtasks exist; otherwise it only clamps a manually set value to 0-100.
func recomputeProgress(t *models.Task) {
	if len(t.Subtasks) > 0 {
		completed := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				completed++
			}
		}
		t.Progress = completed * 100 / len(t.Subtasks)
		return
	}
	if t.Progress < 0 {
		t.Progress = 0
	}
	if t.Progress > 100 {
		t.Progress = 100
	}
}

// newID generates a unique entity id (simple format: prefix-{timestamp}).
func newID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
