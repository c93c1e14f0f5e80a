package services

import (
	"fmt"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/metrics"
	"contacts-manager/internal/models"
	"contacts-manager/internal/utils"
	"contacts-manager/internal/wsnotify"
)

// Notifier pushes change events to live clients. wsnotify.Manager is the
// production implementation.
type Notifier interface {
	Broadcast(event interface{})
}

// ContactService is the surface the HTTP handlers and the CLI use. It runs
// each operation against the repositories and then journals it, notifies
// websocket clients and counts it. Those side effects never fail the
// operation.
type ContactService struct {
	contacts   models.ContactRepository
	categories models.CategoryRepository
	activity   models.ActivityRepository
	notifier   Notifier
	metrics    *metrics.Collector
	uploader   Uploader
}

func NewContactService(contacts models.ContactRepository, categories models.CategoryRepository) *ContactService {
	return &ContactService{
		contacts:   contacts,
		categories: categories,
	}
}

func (s *ContactService) WithActivity(repo models.ActivityRepository) *ContactService {
	s.activity = repo
	return s
}

func (s *ContactService) WithNotifier(n Notifier) *ContactService {
	s.notifier = n
	return s
}

func (s *ContactService) WithMetrics(m *metrics.Collector) *ContactService {
	s.metrics = m
	return s
}

// WithUploader enables export archives. Without one ArchiveExport reports the
// feature as unavailable.
func (s *ContactService) WithUploader(u Uploader) *ContactService {
	s.uploader = u
	return s
}

func (s *ContactService) ListContacts(filter models.ContactFilter) []models.Contact {
	return s.contacts.Filter(filter)
}

func (s *ContactService) GetContact(id int) (*models.Contact, error) {
	return s.contacts.Get(id)
}

func (s *ContactService) CreateContact(fields models.ContactFields) (*models.Contact, error) {
	contact, err := s.contacts.Create(fields)
	if err != nil {
		utils.LogError("Error creating contact: %v", err)
		return nil, err
	}

	utils.LogInfo("Contact %d created", contact.ID)
	s.after(models.ActionCreated, contact.ID, contact.DisplayName(), wsnotify.EventContactCreated, contact)
	return contact, nil
}

func (s *ContactService) UpdateContact(id int, fields models.ContactFields) (*models.Contact, error) {
	contact, err := s.contacts.Update(id, fields)
	if err != nil {
		utils.LogError("Error updating contact %d: %v", id, err)
		return nil, err
	}

	utils.LogInfo("Contact %d updated", id)
	s.after(models.ActionUpdated, contact.ID, contact.DisplayName(), wsnotify.EventContactUpdated, contact)
	return contact, nil
}

func (s *ContactService) BulkUpdateContacts(ids []int, fields models.ContactFields) (int, error) {
	count, err := s.contacts.BulkUpdate(ids, fields)
	if err != nil {
		utils.LogError("Error in bulk update: %v", err)
		return 0, err
	}

	utils.LogInfo("Bulk update applied to %d contacts", count)
	payload := map[string]interface{}{
		"contact_ids":   ids,
		"updated_count": count,
	}
	s.after(models.ActionBulkUpdated, 0, fmt.Sprintf("updated %d contacts", count), wsnotify.EventContactsBulkUpdated, payload)
	return count, nil
}

func (s *ContactService) DeleteContact(id int) (*models.Contact, error) {
	contact, err := s.contacts.Delete(id)
	if err != nil {
		utils.LogError("Error deleting contact %d: %v", id, err)
		return nil, err
	}

	utils.LogInfo("Contact %d deleted", id)
	s.after(models.ActionDeleted, contact.ID, contact.DisplayName(), wsnotify.EventContactDeleted, contact)
	return contact, nil
}

func (s *ContactService) ListCategories() []string {
	return s.categories.List()
}

func (s *ContactService) AddCategory(name string) (string, error) {
	added, err := s.categories.Add(name)
	if err != nil {
		utils.LogWarning("Category %q not added: %v", name, err)
		return "", err
	}

	utils.LogInfo("Category %q added", added)
	s.after(models.ActionCategoryAdded, 0, added, wsnotify.EventCategoryAdded, map[string]string{"name": added})
	return added, nil
}

// RecentActivity returns up to limit journal entries, newest first.
func (s *ContactService) RecentActivity(limit int) ([]*models.Activity, error) {
	if s.activity == nil {
		return nil, apperrors.NewUnavailableError("activity journal is not configured")
	}
	if limit <= 0 {
		return nil, apperrors.NewInvalidInputError("limit must be positive")
	}
	return s.activity.Recent(limit)
}

func (s *ContactService) after(action string, contactID int, summary string, eventType string, payload interface{}) {
	s.metrics.RecordMutation(action)

	if s.activity != nil {
		entry := &models.Activity{ContactID: contactID, Action: action, Summary: summary}
		if err := s.activity.Save(entry); err != nil {
			utils.LogError("Error journaling %s: %v", action, err)
		}
	}

	if s.notifier != nil {
		s.notifier.Broadcast(wsnotify.NewContactEvent(eventType, payload))
	}
}
