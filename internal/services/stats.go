package services

import (
	"sort"

	"contacts-manager/internal/models"
	"contacts-manager/internal/utils"
)

const recentLimit = 10

// Stats is the dashboard summary of the contact list.
type Stats struct {
	Total      int              `json:"total_contacts"`
	Important  int              `json:"important_contacts"`
	Archived   int              `json:"archived_contacts"`
	Active     int              `json:"active_contacts"`
	Categories map[string]int   `json:"category_stats"`
	Recent     []models.Contact `json:"recent_contacts"`
	Activity   map[string]int   `json:"activity,omitempty"`
}

func (s *ContactService) Stats() *Stats {
	stats := ComputeStats(s.contacts.List())
	if s.activity != nil {
		counts, err := s.activity.CountByAction()
		if err != nil {
			utils.LogError("Error counting activity: %v", err)
		} else {
			stats.Activity = counts
		}
	}
	return stats
}

// ComputeStats counts archived contacts too; Active excludes them. Recent
// holds the ten most recently modified contacts, newest first.
func ComputeStats(contacts []models.Contact) *Stats {
	stats := &Stats{
		Total:      len(contacts),
		Categories: make(map[string]int),
	}
	for _, c := range contacts {
		if c.Important {
			stats.Important++
		}
		if c.Archived {
			stats.Archived++
		}
		stats.Categories[c.Category]++
	}
	stats.Active = stats.Total - stats.Archived

	recent := append([]models.Contact{}, contacts...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastModified.After(recent[j].LastModified.Time)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	stats.Recent = recent
	return stats
}
