package services

import (
	"fmt"
	"os"
	"time"

	"contacts-manager/internal/models"
	"contacts-manager/internal/utils"
	"contacts-manager/internal/vcard"
)

// Bootstrapper seeds an absent contact store from a VCF export.
type Bootstrapper struct {
	contacts models.ContactRepository
	activity models.ActivityRepository
	vcfPath  string
	now      func() time.Time
}

func NewBootstrapper(contacts models.ContactRepository, vcfPath string) *Bootstrapper {
	return &Bootstrapper{
		contacts: contacts,
		vcfPath:  vcfPath,
		now:      time.Now,
	}
}

func (b *Bootstrapper) WithActivity(repo models.ActivityRepository) *Bootstrapper {
	b.activity = repo
	return b
}

func (b *Bootstrapper) WithClock(now func() time.Time) *Bootstrapper {
	b.now = now
	return b
}

// EnsureInitialized imports the VCF file when the contact store does not
// exist yet and returns the number of contacts written. An existing store is
// never touched.
func (b *Bootstrapper) EnsureInitialized() (int, error) {
	if b.contacts.Exists() {
		return 0, nil
	}

	defer utils.TimeTrack(time.Now(), "vcf import")

	records, err := ReadVCF(b.vcfPath)
	if err != nil {
		return 0, err
	}

	contacts := ContactsFromRecords(records, b.now())
	if err := b.contacts.ReplaceAll(contacts); err != nil {
		return 0, fmt.Errorf("error saving imported contacts: %w", err)
	}

	utils.LogInfo("Imported %d contacts from %s", len(contacts), b.vcfPath)
	if b.activity != nil {
		entry := &models.Activity{
			Action:  models.ActionImported,
			Summary: fmt.Sprintf("imported %d contacts from %s", len(contacts), b.vcfPath),
		}
		if err := b.activity.Save(entry); err != nil {
			utils.LogError("Error journaling import: %v", err)
		}
	}
	return len(contacts), nil
}

// ReadVCF reads, decodes and parses a VCF file.
func ReadVCF(path string) ([]vcard.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading vcf file %s: %w", path, err)
	}
	text, err := vcard.Decode(data)
	if err != nil {
		return nil, err
	}
	return vcard.Parse(text), nil
}

// ContactsFromRecords maps parsed records to new contacts with ids from 1 in
// record order.
func ContactsFromRecords(records []vcard.Record, now time.Time) []models.Contact {
	stamp := models.NewTimestamp(now)
	contacts := make([]models.Contact, 0, len(records))
	for i, r := range records {
		id := i + 1
		name := r.Name
		if name == "" {
			name = r.FullName
		}
		if name == "" {
			name = fmt.Sprintf("Contact %d", id)
		}
		contacts = append(contacts, models.Contact{
			ID:           id,
			Name:         name,
			FullName:     r.FullName,
			PhoneNumbers: models.ParsePhoneNumbers(r.Phone),
			Emails:       models.ParseEmails(r.Email),
			Organization: r.Organization,
			Title:        r.Title,
			Address:      r.Address,
			URL:          r.URL,
			Notes:        r.Notes,
			Category:     models.DefaultCategory,
			CreatedDate:  stamp,
			LastModified: stamp,
		})
	}
	return contacts
}
