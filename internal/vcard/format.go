package vcard

import (
	"strings"
)

// Card is the data Format writes. Phones and Emails produce one line each.
type Card struct {
	Name         string
	FullName     string
	Phones       []string
	Emails       []string
	Organization string
	Title        string
	Address      string
	URL          string
	Notes        string
}

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, ",", `\,`, ";", `\;`)

// Format renders c as a vCard 3.0 block with CRLF line endings.
func Format(c Card) string {
	var b strings.Builder
	line := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	b.WriteString(beginMarker + "\r\n")
	b.WriteString("VERSION:3.0\r\n")

	fn := c.FullName
	if fn == "" {
		fn = c.Name
	}
	first, last := splitName(c.Name)
	b.WriteString("N:" + escaper.Replace(last) + ";" + escaper.Replace(first) + ";;;\r\n")
	b.WriteString("FN:" + escaper.Replace(fn) + "\r\n")

	for _, p := range c.Phones {
		line("TEL;TYPE=VOICE", escaper.Replace(p))
	}
	for _, e := range c.Emails {
		line("EMAIL;TYPE=INTERNET", escaper.Replace(e))
	}
	line("ORG", escaper.Replace(c.Organization))
	line("TITLE", escaper.Replace(c.Title))
	line("ADR;TYPE=HOME", c.Address)
	line("URL", c.URL)
	line("NOTE", escaper.Replace(c.Notes))
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// splitName treats the last word as the family name.
func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	i := strings.LastIndexByte(name, ' ')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}
