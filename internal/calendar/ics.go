// Package calendar renders events as an iCalendar (RFC 5545) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

const (
	prodID = "-//etkinlik//etkinlik//TR"
	// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
	maxLineOctets = 75
)

// GenerateICS generates one VCALENDAR holding an all-day VEVENT per event.
// Events whose date could not be normalized are left out. now is used for
// DTSTAMP.
func GenerateICS(events []*listing.Event, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")

	stamp := formatICSTime(now)
	for _, evt := range events {
		start, end, ok := evt.Span()
		if !ok {
			continue
		}

		writeLine(&ics, "BEGIN:VEVENT")
		writeLine(&ics, fmt.Sprintf("UID:%s@etkinlik", evt.ID))
		writeLine(&ics, "DTSTAMP:"+stamp)

		// DTEND is exclusive for all-day events.
		writeLine(&ics, "DTSTART;VALUE=DATE:"+formatICSDate(start))
		writeLine(&ics, "DTEND;VALUE=DATE:"+formatICSDate(end.AddDate(0, 0, 1)))

		writeLine(&ics, "SUMMARY:"+escapeICS(evt.Title))
		writeLine(&ics, "DESCRIPTION:"+escapeICS(description(evt)))
		if loc := location(evt); loc != "" {
			writeLine(&ics, "LOCATION:"+escapeICS(loc))
		}
		if evt.Link != "" {
			writeLine(&ics, "URL:"+evt.Link)
		}
		if evt.Category != "" {
			writeLine(&ics, "CATEGORIES:"+escapeICS(evt.Category))
		}
		writeLine(&ics, "STATUS:CONFIRMED")
		writeLine(&ics, "TRANSP:TRANSPARENT")
		writeLine(&ics, "END:VEVENT")
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func description(evt *listing.Event) string {
	var lines []string
	if evt.DateText != "" {
		lines = append(lines, "Tarih: "+evt.DateText)
	}
	if evt.Price != "" {
		lines = append(lines, "Fiyat: "+evt.Price)
	}
	lines = append(lines, "Kaynak: "+evt.Source)
	return strings.Join(lines, "\n")
}

func location(evt *listing.Event) string {
	switch {
	case evt.Venue != "" && evt.City != "":
		return evt.Venue + ", " + evt.City
	case evt.Venue != "":
		return evt.Venue
	default:
		return evt.City
	}
}

// writeLine writes a content line, folding it at 75 octets without
// splitting a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space, which counts
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
