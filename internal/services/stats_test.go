package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-manager/internal/models"
)

func TestComputeStats(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{}
	for i := 1; i <= 12; i++ {
		contacts = append(contacts, models.Contact{
			ID:           i,
			Name:         fmt.Sprintf("C%d", i),
			Category:     models.DefaultCategory,
			LastModified: models.NewTimestamp(base.Add(time.Duration(i) * time.Hour)),
		})
	}
	contacts[0].Important = true
	contacts[1].Important = true
	contacts[2].Archived = true
	contacts[3].Category = "Work"

	stats := ComputeStats(contacts)

	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 2, stats.Important)
	assert.Equal(t, 1, stats.Archived)
	assert.Equal(t, 11, stats.Active)
	assert.Equal(t, map[string]int{models.DefaultCategory: 11, "Work": 1}, stats.Categories)
	require.Len(t, stats.Recent, 10)
	assert.Equal(t, 12, stats.Recent[0].ID)
	assert.Equal(t, 3, stats.Recent[9].ID)
	assert.Equal(t, 1, contacts[0].ID, "input order is untouched")
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.NotNil(t, stats.Recent)
	assert.Empty(t, stats.Recent)
	assert.Empty(t, stats.Categories)
}

func TestServiceStatsIncludesActivity(t *testing.T) {
	f := newFixture(t)
	f.create(t, models.ContactFields{Name: strPtr("A")})
	f.create(t, models.ContactFields{Name: strPtr("B"), Archived: boolPtr(true)})

	stats := f.service.Stats()

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, map[string]int{models.ActionCreated: 2}, stats.Activity)
}
