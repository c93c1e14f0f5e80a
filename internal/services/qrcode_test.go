package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/models"
	"contacts-manager/internal/vcard"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestContactVCardRoundTrips(t *testing.T) {
	f := newFixture(t)
	phones := []models.PhoneNumber{{Number: "5551234", Display: "555-1234"}}
	c := f.create(t, models.ContactFields{
		Name:         strPtr("Jane Doe"),
		FullName:     strPtr("Jane Doe"),
		PhoneNumbers: &phones,
		Organization: strPtr("Acme"),
	})

	card, err := f.service.ContactVCard(c.ID)
	require.NoError(t, err)

	records := vcard.Parse(card)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Name)
	assert.Equal(t, "555-1234", records[0].Phone)
	assert.Equal(t, "Acme", records[0].Organization)
}

func TestContactQRCode(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, models.ContactFields{Name: strPtr("Jane Doe")})

	png, err := f.service.ContactQRCode(c.ID, DefaultQRSize)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestContactQRCodeErrors(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, models.ContactFields{Name: strPtr("Jane Doe")})

	_, err := f.service.ContactQRCode(c.ID, 10)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.service.ContactQRCode(c.ID, 5000)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.service.ContactQRCode(404, DefaultQRSize)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
