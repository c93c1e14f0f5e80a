package repositories

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/store"
)

var testDefaults = []string{"Family", "Friends", "Work"}

func newCategoryRepo(t *testing.T) (*JSONCategoryRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	s := store.New[string](path, store.Options{LockTimeout: time.Second})
	return NewJSONCategoryRepository(s, testDefaults), path
}

func TestCategoriesDefaultWhenMissing(t *testing.T) {
	repo, path := newCategoryRepo(t)

	assert.Equal(t, testDefaults, repo.List())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCategoriesListIsACopy(t *testing.T) {
	repo, _ := newCategoryRepo(t)

	list := repo.List()
	list[0] = "Changed"

	assert.Equal(t, "Family", repo.List()[0])
}

func TestAddCategory(t *testing.T) {
	repo, path := newCategoryRepo(t)

	name, err := repo.Add("  Neighbors ")
	require.NoError(t, err)
	assert.Equal(t, "Neighbors", name)
	assert.Equal(t, []string{"Family", "Friends", "Work", "Neighbors"}, repo.List())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"Family\",\n  \"Friends\",\n  \"Work\",\n  \"Neighbors\"\n]\n", string(raw))
}

func TestAddCategoryRejects(t *testing.T) {
	repo, _ := newCategoryRepo(t)

	tests := []struct {
		name  string
		input string
	}{
		{"blank", "   "},
		{"empty", ""},
		{"duplicate", "Work"},
		{"duplicate after trim", " Family "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Add(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}

	_, err := repo.Add("work")
	assert.NoError(t, err, "names are case-sensitive")
}

func TestCategoriesFallBackOnBadFile(t *testing.T) {
	repo, path := newCategoryRepo(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o644))

	assert.Equal(t, testDefaults, repo.List())

	_, err := repo.Add("Gym")
	require.NoError(t, err)
	assert.Equal(t, []string{"Family", "Friends", "Work", "Gym"}, repo.List())
}
