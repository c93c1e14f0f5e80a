// Package vcard reads the subset of vCard used by phone address-book exports
// and writes single contacts back out for QR codes and .vcf downloads.
package vcard

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	apperrors "contacts-manager/internal/errors"
)

const beginMarker = "BEGIN:VCARD"

// Record holds the raw fields of one BEGIN:VCARD block. Phone and Email join
// repeated lines with "; ".
type Record struct {
	Name         string
	FullName     string
	Phone        string
	Email        string
	Organization string
	Title        string
	Address      string
	URL          string
	Notes        string
}

// Keep reports whether the record carries enough to become a contact.
func (r *Record) Keep() bool {
	return r.Name != "" || r.FullName != "" || r.Phone != ""
}

// Decode returns data as text, trying UTF-8 and falling back to Latin-1.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", apperrors.NewDecodeError("vcf source is neither UTF-8 nor Latin-1", err)
	}
	return string(text), nil
}

// Parse extracts records from vCard text in input order. Blocks without a
// name, full name or phone are dropped.
func Parse(text string) []Record {
	var records []Record
	for _, chunk := range strings.Split(text, beginMarker) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		r := parseChunk(chunk)
		if r.Keep() {
			records = append(records, r)
		}
	}
	return records
}

func parseChunk(chunk string) Record {
	var r Record
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "END:VCARD" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "N:"):
			parts := strings.Split(line[2:], ";")
			if len(parts) >= 2 {
				r.Name = strings.TrimSpace(parts[1] + " " + parts[0])
			}
		case strings.HasPrefix(line, "FN:"):
			r.FullName = line[3:]
		case strings.HasPrefix(line, "TEL"):
			if v, ok := paramValue(line); ok {
				r.Phone = appendValue(r.Phone, v)
			}
		case strings.HasPrefix(line, "EMAIL"):
			if v, ok := paramValue(line); ok {
				r.Email = appendValue(r.Email, v)
			}
		case strings.HasPrefix(line, "ORG:"):
			r.Organization = line[4:]
		case strings.HasPrefix(line, "TITLE:"):
			r.Title = line[6:]
		case strings.HasPrefix(line, "ADR"):
			if v, ok := paramValue(line); ok {
				r.Address = v
			}
		case strings.HasPrefix(line, "URL"):
			if v, ok := paramValue(line); ok {
				r.URL = v
			}
		case strings.HasPrefix(line, "NOTE:"):
			r.Notes = line[5:]
		}
	}
	return r
}

// paramValue returns what follows the first colon of a KEY;PARAMS:VALUE
// line. A line with nothing after the colon has no value.
func paramValue(line string) (string, bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 || i == len(line)-1 {
		return "", false
	}
	return line[i+1:], true
}

func appendValue(current, v string) string {
	if current == "" {
		return v
	}
	return current + "; " + v
}
