package vcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMultiplePhones(t *testing.T) {
	text := "BEGIN:VCARD\nN:Doe;Jane;;;\nFN:Jane Doe\nTEL;TYPE=CELL:555-1234\nTEL;TYPE=WORK:555-5678\nEND:VCARD"

	records := Parse(text)

	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].Name)
	assert.Equal(t, "Jane Doe", records[0].FullName)
	assert.Equal(t, "555-1234; 555-5678", records[0].Phone)
}

func TestParseDropsBlocksWithoutIdentity(t *testing.T) {
	text := "BEGIN:VCARD\nORG:Acme\nEND:VCARD\nBEGIN:VCARD\nFN:Kept\nEND:VCARD\n"

	records := Parse(text)

	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].FullName)
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Record
	}{
		{
			name: "phone only",
			text: "BEGIN:VCARD\nTEL:+1 555 0000\nEND:VCARD",
			want: Record{Phone: "+1 555 0000"},
		},
		{
			name: "missing first name component",
			text: "BEGIN:VCARD\nN:Smith\nFN:Smith\nEND:VCARD",
			want: Record{FullName: "Smith"},
		},
		{
			name: "empty first name",
			text: "BEGIN:VCARD\nN:Smith;;;;\nEND:VCARD",
			want: Record{Name: "Smith"},
		},
		{
			name: "emails accumulate, address and url last wins",
			text: "BEGIN:VCARD\r\n" +
				"FN:Ann\r\n" +
				"EMAIL;TYPE=HOME:a@home.test\r\n" +
				"EMAIL;TYPE=WORK:a@work.test\r\n" +
				"ADR;TYPE=HOME:;;1 Old St;;;;\r\n" +
				"ADR;TYPE=WORK:;;2 New St;;;;\r\n" +
				"URL:http://old.test\r\n" +
				"URL;TYPE=WORK:https://new.test\r\n" +
				"ORG:Acme Inc\r\n" +
				"TITLE:Engineer\r\n" +
				"NOTE:met at conference\r\n" +
				"END:VCARD\r\n",
			want: Record{
				FullName:     "Ann",
				Email:        "a@home.test; a@work.test",
				Address:      ";;2 New St;;;;",
				URL:          "https://new.test",
				Organization: "Acme Inc",
				Title:        "Engineer",
				Notes:        "met at conference",
			},
		},
		{
			name: "lowercase prefixes are ignored",
			text: "BEGIN:VCARD\nfn:lower\ntel:123\nFN:Upper\nEND:VCARD",
			want: Record{FullName: "Upper"},
		},
		{
			name: "tel without value is skipped",
			text: "BEGIN:VCARD\nFN:X\nTEL;TYPE=CELL:\nTEL:1\nEND:VCARD",
			want: Record{FullName: "X", Phone: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Parse(tt.text)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0])
		})
	}
}

func TestParsePreservesOrder(t *testing.T) {
	text := "BEGIN:VCARD\nFN:First\nEND:VCARD\nBEGIN:VCARD\nFN:Second\nEND:VCARD\nBEGIN:VCARD\nFN:Third\nEND:VCARD"

	records := Parse(text)

	require.Len(t, records, 3)
	assert.Equal(t, "First", records[0].FullName)
	assert.Equal(t, "Second", records[1].FullName)
	assert.Equal(t, "Third", records[2].FullName)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n"))
}

func TestDecodeFallsBackToLatin1(t *testing.T) {
	// "FN:José" with é as the single Latin-1 byte 0xE9.
	data := []byte{'F', 'N', ':', 'J', 'o', 's', 0xE9}

	text, err := Decode(data)

	require.NoError(t, err)
	assert.Equal(t, "FN:José", text)
}

func TestDecodeUTF8(t *testing.T) {
	text, err := Decode([]byte("FN:Zoë"))

	require.NoError(t, err)
	assert.Equal(t, "FN:Zoë", text)
}

func TestFormatRoundTripsThroughParse(t *testing.T) {
	card := Card{
		Name:         "Jane Doe",
		FullName:     "Dr. Jane Doe",
		Phones:       []string{"555-1234", "555-5678"},
		Emails:       []string{"jane@example.test"},
		Organization: "Acme",
		Title:        "CTO",
		URL:          "https://jane.example.test",
		Notes:        "likes tea",
	}

	records := Parse(Format(card))

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, "Dr. Jane Doe", r.FullName)
	assert.Equal(t, "555-1234; 555-5678", r.Phone)
	assert.Equal(t, "jane@example.test", r.Email)
	assert.Equal(t, "Acme", r.Organization)
	assert.Equal(t, "CTO", r.Title)
	assert.Equal(t, "https://jane.example.test", r.URL)
	assert.Equal(t, "likes tea", r.Notes)
}
