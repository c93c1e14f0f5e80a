package repositories

import (
	"errors"
	"fmt"
	"strings"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/store"
)

// JSONCategoryRepository keeps the ordered category list in its own JSON file.
// Until the first category is added the configured defaults are served.
type JSONCategoryRepository struct {
	store    *store.Store[string]
	defaults []string
}

func NewJSONCategoryRepository(s *store.Store[string], defaults []string) *JSONCategoryRepository {
	return &JSONCategoryRepository{
		store:    s,
		defaults: append([]string{}, defaults...),
	}
}

// List returns the stored categories, or the defaults when the file is
// missing or unreadable.
func (r *JSONCategoryRepository) List() []string {
	categories, err := r.load()
	if err != nil {
		return r.defaultList()
	}
	return categories
}

// Add appends name to the list and returns the trimmed value that was stored.
func (r *JSONCategoryRepository) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewInvalidInputError("category name is required")
	}

	categories, err := r.load()
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageRead) {
			return "", err
		}
		categories = r.defaultList()
	}

	for _, c := range categories {
		if c == name {
			return "", apperrors.NewInvalidInputError(fmt.Sprintf("category %q already exists", name))
		}
	}

	categories = append(categories, name)
	if err := r.store.Save(categories); err != nil {
		return "", err
	}
	return name, nil
}

// load reports a missing file as ErrNotFound so callers fall back to the
// defaults.
func (r *JSONCategoryRepository) load() ([]string, error) {
	if !r.store.Exists() {
		return nil, apperrors.ErrNotFound
	}
	categories, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *JSONCategoryRepository) defaultList() []string {
	return append([]string{}, r.defaults...)
}
