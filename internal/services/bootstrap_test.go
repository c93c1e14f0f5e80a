package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-manager/internal/models"
)

const sampleVCF = `BEGIN:VCARD
VERSION:3.0
N:Doe;Jane;;;
FN:Jane Doe
TEL;TYPE=CELL:(555) 123-4567
TEL;TYPE=WORK:+1 555 5678
EMAIL;TYPE=INTERNET:jane@example.com
ORG:Acme
END:VCARD
BEGIN:VCARD
VERSION:3.0
ORG:Nameless Corp
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Dr. Who
END:VCARD
BEGIN:VCARD
VERSION:3.0
TEL:911
END:VCARD
`

func writeVCF(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "contacts.vcf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestEnsureInitializedImportsVCF(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	b := NewBootstrapper(f.contacts, writeVCF(t, f.dir, []byte(sampleVCF))).
		WithActivity(f.activity).
		WithClock(func() time.Time { return now })

	count, err := b.EnsureInitialized()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	contacts := f.contacts.List()
	require.Len(t, contacts, 3)

	jane := contacts[0]
	assert.Equal(t, 1, jane.ID)
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "Jane Doe", jane.FullName)
	assert.Equal(t, []models.PhoneNumber{
		{Number: "5551234567", Display: "(555) 123-4567"},
		{Number: "+15555678", Display: "+1 555 5678"},
	}, jane.PhoneNumbers)
	assert.Equal(t, []string{"jane@example.com"}, jane.Emails)
	assert.Equal(t, "Acme", jane.Organization)
	assert.Equal(t, models.DefaultCategory, jane.Category)
	assert.False(t, jane.Important)
	assert.False(t, jane.Archived)
	assert.True(t, jane.CreatedDate.Equal(now))

	assert.Equal(t, 2, contacts[1].ID)
	assert.Equal(t, "Dr. Who", contacts[1].Name)
	assert.Equal(t, "Contact 3", contacts[2].Name)

	require.Len(t, f.activity.entries, 1)
	assert.Equal(t, models.ActionImported, f.activity.entries[0].Action)
}

func TestEnsureInitializedIsNoOpWhenStoreExists(t *testing.T) {
	f := newFixture(t)
	f.create(t, models.ContactFields{Name: strPtr("Existing")})
	b := NewBootstrapper(f.contacts, writeVCF(t, f.dir, []byte(sampleVCF)))

	count, err := b.EnsureInitialized()

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	contacts := f.contacts.List()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Existing", contacts[0].Name)
}

func TestEnsureInitializedMissingVCF(t *testing.T) {
	f := newFixture(t)
	b := NewBootstrapper(f.contacts, filepath.Join(f.dir, "missing.vcf"))

	_, err := b.EnsureInitialized()

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, f.contacts.Exists())
}

func TestEnsureInitializedLatin1(t *testing.T) {
	f := newFixture(t)
	data := []byte("BEGIN:VCARD\nFN:Jos\xe9 Garc\xeda\nEND:VCARD\n")
	b := NewBootstrapper(f.contacts, writeVCF(t, f.dir, data))

	count, err := b.EnsureInitialized()

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "José García", f.contacts.List()[0].Name)
}

func TestReadVCFEmptyFile(t *testing.T) {
	f := newFixture(t)

	records, err := ReadVCF(writeVCF(t, f.dir, nil))

	require.NoError(t, err)
	assert.Empty(t, records)
}
