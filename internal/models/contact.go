package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultCategory = "Uncategorized"
	// CategoryAll disables the category filter.
	CategoryAll = "all"
)

// DefaultCategories seeds the category list the first time it is needed.
var DefaultCategories = []string{
	"Family",
	"Friends",
	"Work",
	"Medical",
	"Services",
	"Church",
	"Business",
	"Emergency",
}

type PhoneNumber struct {
	Number  string `json:"number"`
	Display string `json:"display" validate:"required"`
}

type Contact struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	FullName     string        `json:"full_name"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers"`
	Emails       []string      `json:"emails"`
	Organization string        `json:"organization"`
	Title        string        `json:"title"`
	Address      string        `json:"address"`
	URL          string        `json:"url"`
	Notes        string        `json:"notes"`
	Category     string        `json:"category"`
	Important    bool          `json:"important"`
	Archived     bool          `json:"archived"`
	CreatedDate  Timestamp     `json:"created_date"`
	LastModified Timestamp     `json:"last_modified"`

	// Extra holds keys found on a stored record that Contact does not model.
	// They are written back unchanged on save.
	Extra map[string]json.RawMessage `json:"-"`
}

var contactKeys = map[string]struct{}{
	"id": {}, "name": {}, "full_name": {}, "phone_numbers": {}, "emails": {},
	"organization": {}, "title": {}, "address": {}, "url": {}, "notes": {},
	"category": {}, "important": {}, "archived": {}, "created_date": {}, "last_modified": {},
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	type Alias Contact
	aux := (*Alias)(c)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if _, known := contactKeys[k]; known {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage)
		}
		c.Extra[k] = v
	}
	return nil
}

func (c Contact) MarshalJSON() ([]byte, error) {
	type Alias Contact
	data, err := marshalNoEscape(Alias(c))
	if err != nil || len(c.Extra) == 0 {
		return data, err
	}

	merged := make(map[string]json.RawMessage, len(contactKeys)+len(c.Extra))
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if _, known := contactKeys[k]; !known {
			merged[k] = v
		}
	}
	return marshalNoEscape(merged)
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Normalize fills the defaults a loosely written record may be missing.
func (c *Contact) Normalize() {
	if c.PhoneNumbers == nil {
		c.PhoneNumbers = []PhoneNumber{}
	}
	if c.Emails == nil {
		c.Emails = []string{}
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
}

// DisplayName is the best available label for the contact.
func (c *Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FullName
}

// ContactFields is a partial set of mutable contact fields. Nil pointers are
// left untouched by Apply.
type ContactFields struct {
	Name         *string        `json:"name,omitempty" validate:"omitempty,max=256"`
	FullName     *string        `json:"full_name,omitempty" validate:"omitempty,max=256"`
	PhoneNumbers *[]PhoneNumber `json:"phone_numbers,omitempty" validate:"omitempty,dive"`
	Emails       *[]string      `json:"emails,omitempty"`
	Organization *string        `json:"organization,omitempty"`
	Title        *string        `json:"title,omitempty"`
	Address      *string        `json:"address,omitempty"`
	URL          *string        `json:"url,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Category     *string        `json:"category,omitempty" validate:"omitempty,min=1,max=64"`
	Important    *bool          `json:"important,omitempty"`
	Archived     *bool          `json:"archived,omitempty"`
}

// Apply merges the set fields into c. It reports whether any field was set.
func (f ContactFields) Apply(c *Contact) bool {
	changed := false
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}

	setString(&c.Name, f.Name)
	setString(&c.FullName, f.FullName)
	setString(&c.Organization, f.Organization)
	setString(&c.Title, f.Title)
	setString(&c.Address, f.Address)
	setString(&c.URL, f.URL)
	setString(&c.Notes, f.Notes)
	setString(&c.Category, f.Category)
	setBool(&c.Important, f.Important)
	setBool(&c.Archived, f.Archived)
	if f.PhoneNumbers != nil {
		c.PhoneNumbers = append([]PhoneNumber{}, (*f.PhoneNumbers)...)
		changed = true
	}
	if f.Emails != nil {
		c.Emails = append([]string{}, (*f.Emails)...)
		changed = true
	}
	return changed
}

// ContactFilter selects contacts. All set criteria must match.
type ContactFilter struct {
	Category        string
	ImportantOnly   bool
	IncludeArchived bool
	Search          string
	IDs             []int
}

func (f ContactFilter) Matches(c *Contact) bool {
	if f.Category != "" && f.Category != CategoryAll && c.Category != f.Category {
		return false
	}
	if f.ImportantOnly && !c.Important {
		return false
	}
	if !f.IncludeArchived && c.Archived {
		return false
	}
	if len(f.IDs) > 0 && !containsID(f.IDs, c.ID) {
		return false
	}
	if q := strings.ToLower(f.Search); q != "" {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.FullName), q) ||
			strings.Contains(strings.ToLower(c.Organization), q)
	}
	return true
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// ParsePhoneNumbers splits a "; "-joined phone list into entries holding the
// dialable digits and the original trimmed text.
func ParsePhoneNumbers(s string) []PhoneNumber {
	numbers := []PhoneNumber{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		numbers = append(numbers, PhoneNumber{
			Number:  nonDialable.ReplaceAllString(part, ""),
			Display: part,
		})
	}
	return numbers
}

// ParseEmails splits a "; "-joined email list.
func ParseEmails(s string) []string {
	emails := []string{}
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			emails = append(emails, part)
		}
	}
	return emails
}

// ContactRepository is the persistence contract consumed by services and
// handlers. Reads never fail on storage problems; they return what could be
// loaded, possibly nothing.
type ContactRepository interface {
	List() []Contact
	Get(id int) (*Contact, error)
	Create(fields ContactFields) (*Contact, error)
	Update(id int, fields ContactFields) (*Contact, error)
	BulkUpdate(ids []int, fields ContactFields) (int, error)
	Delete(id int) (*Contact, error)
	Filter(filter ContactFilter) []Contact
	Exists() bool
	ReplaceAll(contacts []Contact) error
}

type CategoryRepository interface {
	List() []string
	Add(name string) (string, error)
}

// Timestamp is an ISO-8601 instant. A value read from JSON is written back
// in its original text so load/save cycles do not rewrite old records.
type Timestamp struct {
	time.Time
	raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func ParseTimestamp(s string) (Timestamp, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return Timestamp{Time: t, raw: s}, nil
		}
		lastErr = err
	}
	return Timestamp{}, lastErr
}

func (t Timestamp) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
