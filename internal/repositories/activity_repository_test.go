package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-manager/config"
	"contacts-manager/internal/models"
)

func newActivityRepo(t *testing.T) *SQLiteActivityRepository {
	t.Helper()
	db, err := config.ConnectDatabase(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLiteActivityRepository(db)
	require.NoError(t, repo.EnsureSchema())
	require.NoError(t, repo.EnsureSchema(), "schema creation is idempotent")
	return repo
}

func TestActivitySaveAndRecent(t *testing.T) {
	repo := newActivityRepo(t)
	base := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)

	entries := []*models.Activity{
		{ContactID: 1, Action: models.ActionCreated, Summary: "Jane Doe", CreatedAt: base},
		{ContactID: 1, Action: models.ActionUpdated, Summary: "Jane Doe", CreatedAt: base.Add(time.Minute)},
		{Action: models.ActionCategoryAdded, Summary: "Neighbors", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range entries {
		require.NoError(t, repo.Save(a))
		assert.NotZero(t, a.ID)
	}

	recent, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.ActionCategoryAdded, recent[0].Action)
	assert.Equal(t, 0, recent[0].ContactID)
	assert.Equal(t, "Neighbors", recent[0].Summary)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, models.ActionUpdated, recent[1].Action)
	assert.Equal(t, 1, recent[1].ContactID)
}

func TestActivitySaveStampsTime(t *testing.T) {
	repo := newActivityRepo(t)

	a := &models.Activity{Action: models.ActionDeleted, ContactID: 4}
	require.NoError(t, repo.Save(a))

	assert.False(t, a.CreatedAt.IsZero())
}

func TestActivityCountByAction(t *testing.T) {
	repo := newActivityRepo(t)

	for _, action := range []string{models.ActionCreated, models.ActionCreated, models.ActionDeleted} {
		require.NoError(t, repo.Save(&models.Activity{Action: action}))
	}

	counts, err := repo.CountByAction()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.ActionCreated: 2, models.ActionDeleted: 1}, counts)
}

func TestActivityRecentEmpty(t *testing.T) {
	repo := newActivityRepo(t)

	recent, err := repo.Recent(10)

	require.NoError(t, err)
	assert.Empty(t, recent)
}
