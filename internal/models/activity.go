package models

import "time"

// Activity actions recorded in the journal.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionBulkUpdated   = "bulk_updated"
	ActionDeleted       = "deleted"
	ActionCategoryAdded = "category_added"
	ActionImported      = "imported"
)

type Activity struct {
	ID        int       `json:"id"`
	ContactID int       `json:"contact_id,omitempty"`
	Action    string    `json:"action"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type ActivityRepository interface {
	Save(activity *Activity) error
	Recent(limit int) ([]*Activity, error)
	CountByAction() (map[string]int, error)
}
