package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"contacts-manager/internal/models"
	"contacts-manager/internal/utils"
)

const activitySchema = `
	CREATE TABLE IF NOT EXISTS activity (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER,
		action     TEXT NOT NULL,
		summary    TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity (created_at)`

type SQLiteActivityRepository struct {
	db *sql.DB
}

func NewSQLiteActivityRepository(db *sql.DB) *SQLiteActivityRepository {
	return &SQLiteActivityRepository{db: db}
}

// EnsureSchema creates the journal table if it does not exist.
func (r *SQLiteActivityRepository) EnsureSchema() error {
	if _, err := r.db.Exec(activitySchema); err != nil {
		return fmt.Errorf("error creating activity schema: %v", err)
	}
	return nil
}

func (r *SQLiteActivityRepository) Save(activity *models.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activity (contact_id, action, summary, created_at)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		utils.NullInt(activity.ContactID),
		activity.Action,
		utils.NullString(activity.Summary),
		activity.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("error saving activity: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting last insert id: %v", err)
	}

	activity.ID = int(id)
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *SQLiteActivityRepository) Recent(limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, contact_id, action, summary, created_at
		FROM activity
		ORDER BY id DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying activity: %v", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		activity := &models.Activity{}
		var contactID sql.NullInt64
		var summary sql.NullString
		var createdAt string

		if err := rows.Scan(&activity.ID, &contactID, &activity.Action, &summary, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning activity: %v", err)
		}

		activity.ContactID = int(contactID.Int64)
		activity.Summary = summary.String
		activity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("error parsing activity time %q: %v", createdAt, err)
		}

		activities = append(activities, activity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %v", err)
	}

	return activities, nil
}

func (r *SQLiteActivityRepository) CountByAction() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT action, COUNT(*) FROM activity GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("error counting activity: %v", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("error scanning activity count: %v", err)
		}
		counts[action] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity counts: %v", err)
	}

	return counts, nil
}
