package store_test

import (
	"testing"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"
	"taskboard-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newCategoryStore(t *testing.T) *store.CategoryStore {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return store.NewCategoryStore(db)
}

func TestCategory_CRUD(t *testing.T) {
	categories := newCategoryStore(t)

	created, err := categories.Add(models.Category{Name: "Docs", Color: "#64b5f6"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	all, err := categories.List()
	require.NoError(t, err)
	require.Len(t, all, 1)

	created.Name = "Documentation"
	updated, err := categories.Update(created)
	require.NoError(t, err)
	require.Equal(t, "Documentation", updated.Name)

	require.NoError(t, categories.Delete(created.ID))
	_, err = categories.Get(created.ID)
	require.True(t, store.IsNotFound(err))
}

func TestCategory_UpdateMissing(t *testing.T) {
	categories := newCategoryStore(t)
	_, err := categories.Update(models.Category{ID: "cat-missing", Name: "x"})
	require.True(t, store.IsNotFound(err))
}

func TestCategory_EmptyNameRejected(t *testing.T) {
	categories := newCategoryStore(t)
	_, err := categories.Add(models.Category{Name: " "})
	require.True(t, store.IsValidation(err))
}

// Deleting a category leaves referencing tasks untouched; the dangling id is
// tolerated by the data model.
func TestCategory_DeleteLeavesTasksAlone(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	bus := store.NewBus()
	activity := store.NewActivityStore(db)
	tasks := store.NewTaskStore(db, activity, bus)
	categories := store.NewCategoryStore(db)

	category, err := categories.Add(models.Category{Name: "Infra"})
	require.NoError(t, err)
	task, err := tasks.Add(models.Actor{ID: "u-1", Name: "alice"}, models.Task{Title: "t", CategoryID: category.ID})
	require.NoError(t, err)

	require.NoError(t, categories.Delete(category.ID))

	loaded, err := tasks.Get(task.ID)
	require.NoError(t, err)
	require.Equal(t, category.ID, loaded.CategoryID)
}
