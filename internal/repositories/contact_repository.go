package repositories

import (
	"errors"
	"fmt"
	"time"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/models"
	"contacts-manager/internal/store"
)

// CodeNoneMatched marks a bulk update whose ids matched no contact.
const CodeNoneMatched = "NONE_MATCHED"

// JSONContactRepository keeps the contact list in a JSON file. Every call
// loads the whole list and mutations save it back in one write.
type JSONContactRepository struct {
	store *store.Store[models.Contact]
	now   func() time.Time
}

func NewJSONContactRepository(s *store.Store[models.Contact]) *JSONContactRepository {
	return &JSONContactRepository{store: s, now: time.Now}
}

// WithClock replaces the time source used for created_date and last_modified.
func (r *JSONContactRepository) WithClock(now func() time.Time) *JSONContactRepository {
	r.now = now
	return r
}

func (r *JSONContactRepository) Exists() bool {
	return r.store.Exists()
}

// List returns every contact in stored order. Read failures yield an empty
// list; the store has already logged and, if needed, quarantined the file.
func (r *JSONContactRepository) List() []models.Contact {
	contacts, _ := r.store.Load()
	for i := range contacts {
		contacts[i].Normalize()
	}
	return contacts
}

func (r *JSONContactRepository) Get(id int) (*models.Contact, error) {
	for _, c := range r.List() {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, notFound(id)
}

func (r *JSONContactRepository) Filter(filter models.ContactFilter) []models.Contact {
	matched := []models.Contact{}
	for _, c := range r.List() {
		if filter.Matches(&c) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (r *JSONContactRepository) Create(fields models.ContactFields) (*models.Contact, error) {
	contacts, err := r.loadForWrite()
	if err != nil {
		return nil, err
	}

	now := models.NewTimestamp(r.now())
	contact := models.Contact{
		ID:           nextID(contacts),
		Category:     models.DefaultCategory,
		CreatedDate:  now,
		LastModified: now,
	}
	fields.Apply(&contact)
	contact.Normalize()

	contacts = append(contacts, contact)
	if err := r.store.Save(contacts); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *JSONContactRepository) Update(id int, fields models.ContactFields) (*models.Contact, error) {
	contacts, err := r.loadForWrite()
	if err != nil {
		return nil, err
	}

	for i := range contacts {
		if contacts[i].ID != id {
			continue
		}
		fields.Apply(&contacts[i])
		contacts[i].Normalize()
		contacts[i].LastModified = r.stamp(contacts[i].LastModified)

		if err := r.store.Save(contacts); err != nil {
			return nil, err
		}
		updated := contacts[i]
		return &updated, nil
	}
	return nil, notFound(id)
}

// BulkUpdate applies fields to every contact whose id is listed and saves
// once. An empty id list is rejected before storage is touched.
func (r *JSONContactRepository) BulkUpdate(ids []int, fields models.ContactFields) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewInvalidInputError("no contact ids provided")
	}

	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	contacts, err := r.loadForWrite()
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range contacts {
		if _, ok := wanted[contacts[i].ID]; !ok {
			continue
		}
		fields.Apply(&contacts[i])
		contacts[i].Normalize()
		contacts[i].LastModified = r.stamp(contacts[i].LastModified)
		updated++
	}

	if updated == 0 {
		return 0, apperrors.NewNotFoundError("contacts to update").WithCode(CodeNoneMatched)
	}
	if err := r.store.Save(contacts); err != nil {
		return 0, err
	}
	return updated, nil
}

func (r *JSONContactRepository) Delete(id int) (*models.Contact, error) {
	contacts, err := r.loadForWrite()
	if err != nil {
		return nil, err
	}

	for i := range contacts {
		if contacts[i].ID != id {
			continue
		}
		removed := contacts[i]
		remaining := append(contacts[:i:i], contacts[i+1:]...)
		if err := r.store.Save(remaining); err != nil {
			return nil, err
		}
		return &removed, nil
	}
	return nil, notFound(id)
}

// ReplaceAll writes contacts as the whole stored list.
func (r *JSONContactRepository) ReplaceAll(contacts []models.Contact) error {
	return r.store.Save(contacts)
}

// loadForWrite loads the list a mutation starts from. Corrupt or misshapen
// files were already quarantined and are replaced; a file that could not be
// read at all is not overwritten.
func (r *JSONContactRepository) loadForWrite() ([]models.Contact, error) {
	contacts, err := r.store.Load()
	if err != nil && errors.Is(err, apperrors.ErrStorageRead) {
		return nil, err
	}
	for i := range contacts {
		contacts[i].Normalize()
	}
	return contacts, nil
}

// stamp returns the current time, never earlier than prev.
func (r *JSONContactRepository) stamp(prev models.Timestamp) models.Timestamp {
	now := r.now()
	if !prev.Time.IsZero() && now.Before(prev.Time) {
		now = prev.Time
	}
	return models.NewTimestamp(now)
}

func nextID(contacts []models.Contact) int {
	max := 0
	for _, c := range contacts {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func notFound(id int) *apperrors.AppError {
	return apperrors.NewNotFoundError(fmt.Sprintf("contact %d", id))
}
