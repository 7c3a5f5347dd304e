package listing

import (
	"strings"
	"time"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
)

// ParseRange parses a normalized date ("DD.MM.YYYY") or range
// ("DD.MM.YYYY - DD.MM.YYYY") into its first and last calendar day.
// ok is false for anything else, including raw text the normalizer passed
// through.
func ParseRange(s string) (start, end time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, time.Time{}, false
	}

	first, last, isRange := strings.Cut(s, "-")
	start, err := time.Parse(datenorm.Layout, strings.TrimSpace(first))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if !isRange {
		return start, start, true
	}

	end, err = time.Parse(datenorm.Layout, strings.TrimSpace(last))
	if err != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Span returns the event's first and last day. ok is false when the date
// could not be normalized.
func (e *Event) Span() (start, end time.Time, ok bool) {
	return ParseRange(e.Date)
}

// IsPast reports whether the event's last day is before today.
// Returns false if the date cannot be parsed.
func (e *Event) IsPast(now time.Time) bool {
	_, end, ok := e.Span()
	if !ok {
		return false
	}
	return end.Before(today(now))
}

// IsUpcoming reports whether the event has not finished yet.
// Returns true if the date cannot be parsed.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.IsPast(now)
}

// IsWithinDays reports whether the event starts within the next n days.
// Returns true if n <= 0 (feature disabled) or the date is unparseable.
func (e *Event) IsWithinDays(now time.Time, n int) bool {
	if n <= 0 {
		return true
	}
	start, end, ok := e.Span()
	if !ok {
		return true
	}
	t := today(now)
	cutoff := t.AddDate(0, 0, n)
	return !end.Before(t) && !start.After(cutoff)
}

// IsOpen reports whether today falls inside the application window.
// Returns true if the window cannot be parsed.
func (s *Scholarship) IsOpen(now time.Time) bool {
	start, end, ok := ParseRange(s.ApplicationDates)
	if !ok {
		return true
	}
	t := today(now)
	return !t.Before(start) && !t.After(end)
}

// today truncates now to a UTC calendar day, the representation ParseRange
// returns.
func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
