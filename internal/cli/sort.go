package cli

import (
	"sort"
	"strings"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByVenue SortOrder = "venue"
)

// sortEvents sorts a slice of events based on the specified sort order.
// An empty order keeps the site's order.
func sortEvents(events []*listing.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i].Date, events[j].Date, events[i].Title, events[j].Title)
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(events[i].Date, events[j].Date, "", "")
		})
	case SortByVenue:
		sort.SliceStable(events, func(i, j int) bool {
			vi, vj := strings.ToLower(events[i].Venue), strings.ToLower(events[j].Venue)
			if vi != vj {
				return vi < vj
			}
			return compareByDate(events[i].Date, events[j].Date, events[i].Title, events[j].Title)
		})
	}
}

// sortScholarships sorts by application window (date), title, or provider
// (venue).
func sortScholarships(list []*listing.Scholarship, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(list, func(i, j int) bool {
			return compareByDate(list[i].ApplicationDates, list[j].ApplicationDates, list[i].Title, list[j].Title)
		})
	case SortByTitle:
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Title) < strings.ToLower(list[j].Title)
		})
	case SortByVenue:
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Provider) < strings.ToLower(list[j].Provider)
		})
	}
}

// compareByDate orders by first day, then last day. Listings with a parsed
// date come before those without; ties fall back to title.
func compareByDate(dateI, dateJ, titleI, titleJ string) bool {
	startI, endI, okI := listing.ParseRange(dateI)
	startJ, endJ, okJ := listing.ParseRange(dateJ)

	// If both dates are valid, compare them
	if okI && okJ {
		if !startI.Equal(startJ) {
			return startI.Before(startJ)
		}
		if !endI.Equal(endJ) {
			return endI.Before(endJ)
		}
		return strings.ToLower(titleI) < strings.ToLower(titleJ)
	}

	// If only one date is valid, put the valid one first
	if okI != okJ {
		return okI
	}

	return strings.ToLower(titleI) < strings.ToLower(titleJ)
}
