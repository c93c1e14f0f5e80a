package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	apperrors "contacts-manager/internal/errors"
	"contacts-manager/internal/models"
	"contacts-manager/internal/vcard"
)

const (
	DefaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// CardFromContact converts a stored contact for vCard output.
func CardFromContact(c *models.Contact) vcard.Card {
	phones := make([]string, 0, len(c.PhoneNumbers))
	for _, p := range c.PhoneNumbers {
		phones = append(phones, p.Display)
	}
	return vcard.Card{
		Name:         c.Name,
		FullName:     c.FullName,
		Phones:       phones,
		Emails:       append([]string{}, c.Emails...),
		Organization: c.Organization,
		Title:        c.Title,
		Address:      c.Address,
		URL:          c.URL,
		Notes:        c.Notes,
	}
}

func (s *ContactService) ContactVCard(id int) (string, error) {
	contact, err := s.contacts.Get(id)
	if err != nil {
		return "", err
	}
	return vcard.Format(CardFromContact(contact)), nil
}

// ContactQRCode renders the contact's vCard as a size x size PNG QR code.
func (s *ContactService) ContactQRCode(id int, size int) ([]byte, error) {
	if size < minQRSize || size > maxQRSize {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize))
	}

	card, err := s.ContactVCard(id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(card, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("error generating qr code: %v", err)
	}
	return png, nil
}
