package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/models"
	"contacts-manager/internal/utils"
	"contacts-manager/internal/vcard"
)

var exportHeader = []string{
	"ID", "Name", "Full Name", "Phone Numbers", "Emails", "Organization",
	"Title", "Address", "URL", "Notes", "Category", "Important", "Archived",
}

var recordHeader = []string{
	"Name", "Full Name", "Phone", "Email", "Organization", "Title", "Address", "URL", "Notes",
}

// Uploader stores an export archive and returns where it can be fetched.
type Uploader interface {
	UploadBytes(data []byte, fileName string, contentType string) (string, error)
}

// ExportFileName names an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("contacts_export_%s.csv", t.Format("20060102_150405"))
}

// ExportCSV writes the contacts matching filter and returns how many rows
// were written.
func (s *ContactService) ExportCSV(w io.Writer, filter models.ContactFilter) (int, error) {
	contacts := s.contacts.Filter(filter)
	if err := WriteContactsCSV(w, contacts); err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// ArchiveExport uploads the CSV export of filter through the configured
// uploader.
func (s *ContactService) ArchiveExport(filter models.ContactFilter) (*models.ExportArchiveResponse, error) {
	if s.uploader == nil {
		return nil, apperrors.NewUnavailableError("export archive storage is not configured")
	}

	var buf bytes.Buffer
	count, err := s.ExportCSV(&buf, filter)
	if err != nil {
		return nil, err
	}

	fileName := ExportFileName(time.Now())
	url, err := s.uploader.UploadBytes(buf.Bytes(), fileName, "text/csv; charset=utf-8")
	if err != nil {
		utils.LogError("Error uploading export %s: %v", fileName, err)
		return nil, apperrors.NewUnavailableError("export archive upload failed").WithCause(err)
	}

	utils.LogInfo("Export %s archived with %d contacts", fileName, count)
	return &models.ExportArchiveResponse{URL: url, Count: count, FileName: fileName}, nil
}

// WriteContactsCSV writes contacts in the export column layout.
func WriteContactsCSV(w io.Writer, contacts []models.Contact) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("error writing csv header: %v", err)
	}
	for i := range contacts {
		c := &contacts[i]
		row := []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.FullName,
			joinDisplays(c.PhoneNumbers),
			strings.Join(c.Emails, "; "),
			c.Organization,
			c.Title,
			c.Address,
			c.URL,
			c.Notes,
			c.Category,
			yesNo(c.Important),
			yesNo(c.Archived),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row for contact %d: %v", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes parsed vCard records with Name falling back to
// Full Name.
func WriteRecordsCSV(w io.Writer, records []vcard.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("error writing csv header: %v", err)
	}
	for _, r := range records {
		name := r.Name
		if name == "" {
			name = r.FullName
		}
		row := []string{name, r.FullName, r.Phone, r.Email, r.Organization, r.Title, r.Address, r.URL, r.Notes}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %v", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinDisplays(numbers []models.PhoneNumber) string {
	displays := make([]string, 0, len(numbers))
	for _, n := range numbers {
		displays = append(displays, n.Display)
	}
	return strings.Join(displays, "; ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
