package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"contacts-manager/internal/models"
	"contacts-manager/internal/repositories"
	"contacts-manager/internal/store"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

type recordingNotifier struct {
	mu     sync.Mutex
	events []interface{}
}

func (n *recordingNotifier) Broadcast(event interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type memoryActivity struct {
	mu      sync.Mutex
	entries []*models.Activity
	failing bool
}

func (m *memoryActivity) Save(a *models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("journal unavailable")
	}
	a.ID = len(m.entries) + 1
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *memoryActivity) Recent(limit int) ([]*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Activity{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memoryActivity) CountByAction() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range m.entries {
		counts[e.Action]++
	}
	return counts, nil
}

type fixture struct {
	service    *ContactService
	contacts   *repositories.JSONContactRepository
	categories *repositories.JSONCategoryRepository
	notifier   *recordingNotifier
	activity   *memoryActivity
	dir        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	opts := store.Options{LockTimeout: time.Second}

	contacts := repositories.NewJSONContactRepository(
		store.New[models.Contact](filepath.Join(dir, "contacts_data.json"), opts))
	categories := repositories.NewJSONCategoryRepository(
		store.New[string](filepath.Join(dir, "categories.json"), opts), models.DefaultCategories)

	f := &fixture{
		contacts:   contacts,
		categories: categories,
		notifier:   &recordingNotifier{},
		activity:   &memoryActivity{},
		dir:        dir,
	}
	f.service = NewContactService(contacts, categories).
		WithNotifier(f.notifier).
		WithActivity(f.activity)
	return f
}

func (f *fixture) create(t *testing.T, fields models.ContactFields) *models.Contact {
	t.Helper()
	c, err := f.service.CreateContact(fields)
	require.NoError(t, err)
	return c
}
