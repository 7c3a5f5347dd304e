// Package filter narrows scraped listings down to what the user asked for.
//
// Criteria combine with AND; list criteria (titles, venues, cities) match
// when any entry is a case-insensitive substring. Text is compared with
// Turkish case rules, and dotted and dotless i are treated as the same
// letter, so "izmir", "IZMIR" and "İzmir" all match each other.
//
// Date criteria work on the event's normalized span: an event running
// 28.11.2024 - 02.12.2024 passes a window that touches any of those days.
// Events whose date could not be normalized are kept, since there is no way
// to tell whether they match.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.WeekendsOnly = true
//	f.Venues = []string{"AASSM"}
//	upcoming := f.Apply(events, time.Now())
package filter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// Filter represents listing filtering criteria
type Filter struct {
	// Calendar days, inclusive. Only the date part is used.
	DateFrom *time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`

	Titles []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Venues []string `json:"venues,omitempty" yaml:"venues,omitempty"`
	Cities []string `json:"cities,omitempty" yaml:"cities,omitempty"`

	// Some day of the event falls on Saturday or Sunday.
	WeekendsOnly bool `json:"weekends_only,omitempty" yaml:"weekends_only,omitempty"`
	// Drop events whose last day is already over.
	UpcomingOnly bool `json:"upcoming_only,omitempty" yaml:"upcoming_only,omitempty"`
	// Scholarships only: today is inside the application window.
	OpenOnly bool `json:"open_only,omitempty" yaml:"open_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Titles: []string{},
		Venues: []string{},
		Cities: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Titles) == 0 &&
		len(f.Venues) == 0 &&
		len(f.Cities) == 0 &&
		!f.WeekendsOnly &&
		!f.UpcomingOnly &&
		!f.OpenOnly
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt *listing.Event, now time.Time) bool {
	if f.IsEmpty() {
		return true
	}

	if start, end, ok := evt.Span(); ok {
		if !f.overlaps(start, end) {
			return false
		}
		if f.WeekendsOnly && !touchesWeekend(start, end) {
			return false
		}
	}

	if f.UpcomingOnly && evt.IsPast(now) {
		return false
	}

	if !containsAny(evt.Title, f.Titles) {
		return false
	}
	if !containsAny(evt.Venue, f.Venues) {
		return false
	}
	if !containsAny(evt.City, f.Cities) {
		return false
	}

	return true
}

// MatchesScholarship applies the criteria that make sense for a
// scholarship: the date window against the application window, titles
// against title or provider, cities against location, and OpenOnly.
func (f *Filter) MatchesScholarship(s *listing.Scholarship, now time.Time) bool {
	if f.IsEmpty() {
		return true
	}

	if start, end, ok := listing.ParseRange(s.ApplicationDates); ok && !f.overlaps(start, end) {
		return false
	}
	if f.OpenOnly && !s.IsOpen(now) {
		return false
	}
	if !containsAny(s.Title, f.Titles) && !containsAny(s.Provider, f.Titles) {
		return false
	}
	if !containsAny(s.Location, f.Cities) {
		return false
	}

	return true
}

// Apply returns the events that match. The result is never nil.
func (f *Filter) Apply(events []*listing.Event, now time.Time) []*listing.Event {
	filtered := make([]*listing.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt, now) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// ApplyScholarships returns the scholarships that match. The result is never nil.
func (f *Filter) ApplyScholarships(list []*listing.Scholarship, now time.Time) []*listing.Scholarship {
	filtered := make([]*listing.Scholarship, 0, len(list))
	for _, s := range list {
		if f.MatchesScholarship(s, now) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: 01.12.2024 | To: 31.12.2024 | Titles: Hamlet | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format(datenorm.Layout)))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format(datenorm.Layout)))
	}
	if len(f.Titles) > 0 {
		parts = append(parts, fmt.Sprintf("Titles: %s", strings.Join(f.Titles, ", ")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}
	if f.OpenOnly {
		parts = append(parts, "Open applications only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		WeekendsOnly: f.WeekendsOnly,
		UpcomingOnly: f.UpcomingOnly,
		OpenOnly:     f.OpenOnly,
		Titles:       append([]string{}, f.Titles...),
		Venues:       append([]string{}, f.Venues...),
		Cities:       append([]string{}, f.Cities...),
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	return clone
}

// overlaps reports whether [start, end] shares a day with the filter window.
func (f *Filter) overlaps(start, end time.Time) bool {
	if f.DateFrom != nil && end.Before(day(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && start.After(day(*f.DateTo)) {
		return false
	}
	return true
}

// touchesWeekend checks at most one week of the span; any longer span
// always includes a weekend.
func touchesWeekend(start, end time.Time) bool {
	for d, i := start, 0; !d.After(end) && i < 7; d, i = d.AddDate(0, 0, 1), i+1 {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains one of needles; no needles always
// matches.
func containsAny(s string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	hay := fold(s)
	for _, n := range needles {
		if strings.Contains(hay, fold(n)) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ReplaceAll(cases.Lower(language.Turkish).String(strings.TrimSpace(s)), "ı", "i")
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
