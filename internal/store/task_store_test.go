package store_test

import (
	"testing"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"
	"taskboard-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var actor = models.Actor{ID: "u-1", Name: "alice"}

func newStores(t *testing.T) (*store.TaskStore, *store.ProjectStore, *store.ActivityStore, *gorm.DB) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	bus := store.NewBus()
	activity := store.NewActivityStore(db)
	tasks := store.NewTaskStore(db, activity, bus)
	projects := store.NewProjectStore(db, tasks, activity, bus)
	tasks.SetProjectDirectory(projects)
	return tasks, projects, activity, db
}

func countActivities(t *testing.T, activity *store.ActivityStore, kind models.ActivityType) int {
	t.Helper()
	entries, err := activity.List()
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if e.Type == kind {
			n++
		}
	}
	return n
}

func TestAdd_AssignsIDAndNormalizes(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	created, err := tasks.Add(actor, models.Task{
		Title:    "Write report",
		State:    "someday", // not a defined state
		Priority: "urgent",  // not a defined priority
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.StateTodo, created.State)
	require.Equal(t, models.PriorityMedium, created.Priority)
	require.Equal(t, actor.ID, created.CreatedBy)
	require.Equal(t, 1, countActivities(t, activity, models.ActivityTaskCreated))
}

func TestAdd_EmptyTitleRejected(t *testing.T) {
	tasks, _, _, _ := newStores(t)
	_, err := tasks.Add(actor, models.Task{Title: "   "})
	require.Error(t, err)
	require.True(t, store.IsValidation(err))
}

func TestGet_NormalizesPersistedEnumDrift(t *testing.T) {
	tasks, _, _, db := newStores(t)

	created, err := tasks.Add(actor, models.Task{Title: "Drifted", State: models.StateDone})
	require.NoError(t, err)

	// Round-trip: a recognized tag survives as the typed value.
	loaded, err := tasks.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StateDone, loaded.State)

	// Corrupt the persisted form as an untrusted writer would.
	require.NoError(t, db.Exec("UPDATE tasks SET state = 'DONE!!' WHERE id = ?", created.ID).Error)
	loaded, err = tasks.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StateTodo, loaded.State)
}

func TestUpdate_NotFound(t *testing.T) {
	tasks, _, _, _ := newStores(t)
	_, err := tasks.Update(actor, models.Task{ID: "task-missing", Title: "x"})
	require.Error(t, err)
	require.True(t, store.IsNotFound(err))
}

func TestUpdate_TransitionToDoneRecordsStatusChange(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	created, err := tasks.Add(actor, models.Task{Title: "Ship it"})
	require.NoError(t, err)

	created.State = models.StateDone
	_, err = tasks.Update(actor, created)
	require.NoError(t, err)
	require.Equal(t, 1, countActivities(t, activity, models.ActivityStatusChanged))
	require.Equal(t, 0, countActivities(t, activity, models.ActivityTaskUpdated))

	// A later edit of a done task is a plain update.
	done, err := tasks.Get(created.ID)
	require.NoError(t, err)
	done.Description = "shipped"
	_, err = tasks.Update(actor, done)
	require.NoError(t, err)
	require.Equal(t, 1, countActivities(t, activity, models.ActivityStatusChanged))
	require.Equal(t, 1, countActivities(t, activity, models.ActivityTaskUpdated))
}

func TestUpdateState_Idempotent(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	created, err := tasks.Add(actor, models.Task{Title: "Review PR"})
	require.NoError(t, err)

	_, err = tasks.UpdateState(actor, created.ID, models.StateDone)
	require.NoError(t, err)
	// Second identical call is a no-op: still exactly one STATUS_CHANGED entry.
	_, err = tasks.UpdateState(actor, created.ID, models.StateDone)
	require.NoError(t, err)
	require.Equal(t, 1, countActivities(t, activity, models.ActivityStatusChanged))

	loaded, err := tasks.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StateDone, loaded.State)
}

func TestDelete_NotFoundAndRemoval(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	err := tasks.Delete(actor, "task-missing")
	require.True(t, store.IsNotFound(err))

	created, err := tasks.Add(actor, models.Task{Title: "Temp"})
	require.NoError(t, err)
	require.NoError(t, tasks.Delete(actor, created.ID))
	require.Equal(t, 1, countActivities(t, activity, models.ActivityTaskDeleted))

	_, err = tasks.Get(created.ID)
	require.True(t, store.IsNotFound(err))
}

func TestSubtasks_DriveProgress(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	created, err := tasks.Add(actor, models.Task{Title: "Prepare release"})
	require.NoError(t, err)

	withOne, err := tasks.AddSubtask(actor, created.ID, "changelog")
	require.NoError(t, err)
	require.Len(t, withOne.Subtasks, 1)
	require.Equal(t, 0, withOne.Progress)

	withTwo, err := tasks.AddSubtask(actor, created.ID, "tag build")
	require.NoError(t, err)
	require.Len(t, withTwo.Subtasks, 2)

	toggled, err := tasks.ToggleSubtask(actor, created.ID, withTwo.Subtasks[0].ID)
	require.NoError(t, err)
	require.Equal(t, 50, toggled.Progress)

	toggled, err = tasks.ToggleSubtask(actor, created.ID, withTwo.Subtasks[1].ID)
	require.NoError(t, err)
	require.Equal(t, 100, toggled.Progress)

	// Deleting the incomplete subtask keeps progress consistent.
	reverted, err := tasks.ToggleSubtask(actor, created.ID, withTwo.Subtasks[1].ID)
	require.NoError(t, err)
	require.Equal(t, 50, reverted.Progress)
	afterDelete, err := tasks.DeleteSubtask(actor, created.ID, withTwo.Subtasks[1].ID)
	require.NoError(t, err)
	require.Equal(t, 100, afterDelete.Progress)

	_, err = tasks.ToggleSubtask(actor, created.ID, "sub-missing")
	require.True(t, store.IsNotFound(err))

	require.Equal(t, 2, countActivities(t, activity, models.ActivitySubtaskAdded))
	require.Equal(t, 3, countActivities(t, activity, models.ActivitySubtaskToggled))
	require.Equal(t, 1, countActivities(t, activity, models.ActivitySubtaskDeleted))
}

func TestComments_AddAndDelete(t *testing.T) {
	tasks, _, activity, _ := newStores(t)

	created, err := tasks.Add(actor, models.Task{Title: "Discuss design"})
	require.NoError(t, err)

	withComment, err := tasks.AddComment(actor, created.ID, "looks good")
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	require.Equal(t, actor.ID, withComment.Comments[0].AuthorID)
	require.Equal(t, actor.Name, withComment.Comments[0].Author)

	_, err = tasks.DeleteComment(actor, created.ID, "cmt-missing")
	require.True(t, store.IsNotFound(err))

	without, err := tasks.DeleteComment(actor, created.ID, withComment.Comments[0].ID)
	require.NoError(t, err)
	require.Empty(t, without.Comments)

	require.Equal(t, 1, countActivities(t, activity, models.ActivityCommentAdded))
	require.Equal(t, 1, countActivities(t, activity, models.ActivityCommentDeleted))
}

func TestStats_RecomputedAfterMutation(t *testing.T) {
	tasks, _, _, _ := newStores(t)

	_, err := tasks.Add(actor, models.Task{Title: "a", State: models.StateDone, Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = tasks.Add(actor, models.Task{Title: "b", State: models.StateInProgress, Priority: models.PriorityLow})
	require.NoError(t, err)
	created, err := tasks.Add(actor, models.Task{Title: "c"})
	require.NoError(t, err)

	stats, err := tasks.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(1), stats.Completed)
	require.Equal(t, int64(1), stats.InProgress)
	require.Equal(t, int64(1), stats.ByPriority.High)
	require.Equal(t, int64(1), stats.ByPriority.Medium)
	require.Equal(t, int64(1), stats.ByPriority.Low)

	// Mutation invalidates the cached aggregate.
	_, err = tasks.UpdateState(actor, created.ID, models.StateDone)
	require.NoError(t, err)
	stats, err = tasks.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Completed)
}

func TestList_PaginationAndFilter(t *testing.T) {
	tasks, _, _, _ := newStores(t)

	for i := 0; i < 7; i++ {
		_, err := tasks.Add(actor, models.Task{Title: "task", CreatedBy: "u-1"})
		require.NoError(t, err)
	}
	_, err := tasks.Add(models.Actor{ID: "u-2", Name: "bob"}, models.Task{Title: "other"})
	require.NoError(t, err)

	page, total, err := tasks.List(store.ListOptions{Page: 1, Limit: 5, CreatedBy: "u-1"})
	require.NoError(t, err)
	require.Equal(t, int64(7), total)
	require.Len(t, page, 5)

	page, _, err = tasks.List(store.ListOptions{Page: 2, Limit: 5, CreatedBy: "u-1"})
	require.NoError(t, err)
	require.Len(t, page, 2)
}
