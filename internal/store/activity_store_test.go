package store_test

import (
	"fmt"
	"testing"
	"time"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"
	"taskboard-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newActivityStore(t *testing.T) *store.ActivityStore {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return store.NewActivityStore(db)
}

func TestAppend_AssignsTimestamp(t *testing.T) {
	activity := newActivityStore(t)

	entry, err := activity.Append(models.Activity{
		UserID:   "u-1",
		UserName: "alice",
		Type:     models.ActivityTaskCreated,
	})
	require.NoError(t, err)
	require.False(t, entry.Timestamp.IsZero())
	require.NotZero(t, entry.ID)
}

func TestCap_EvictsOldestFirst(t *testing.T) {
	activity := newActivityStore(t)

	for i := 1; i <= store.DefaultActivityCap+5; i++ {
		_, err := activity.Append(models.Activity{
			UserID:  "u-1",
			Type:    models.ActivityTaskUpdated,
			Details: fmt.Sprintf("entry-%d", i),
		})
		require.NoError(t, err)
	}

	entries, err := activity.List()
	require.NoError(t, err)
	require.Len(t, entries, store.DefaultActivityCap)
	// The five oldest entries are gone; the log starts at entry-6.
	require.Equal(t, "entry-6", entries[0].Details)
	require.Equal(t, fmt.Sprintf("entry-%d", store.DefaultActivityCap+5), entries[len(entries)-1].Details)
}

func TestRecent_NewestFirst(t *testing.T) {
	activity := newActivityStore(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := activity.Append(models.Activity{
			UserID:    "u-1",
			Type:      models.ActivityTaskUpdated,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Details:   fmt.Sprintf("entry-%d", i),
		})
		require.NoError(t, err)
	}

	recent, err := activity.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "entry-2", recent[0].Details)
	require.Equal(t, "entry-1", recent[1].Details)
}

func TestLog_QuickWrapper(t *testing.T) {
	activity := newActivityStore(t)

	activity.Log(models.Actor{ID: "u-1", Name: "alice"}, models.ActivityStatusChanged, "task-1", "Ship it", "done")

	entries, err := activity.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "u-1", entries[0].UserID)
	require.Equal(t, "alice", entries[0].UserName)
	require.Equal(t, models.ActivityStatusChanged, entries[0].Type)
	require.Equal(t, "task-1", entries[0].TaskID)
	require.Equal(t, "Ship it", entries[0].TaskTitle)
	require.Equal(t, "done", entries[0].Details)
}
