package datenorm

import (
	"fmt"
	"sort"
	"strings"
)

// Policy selects the source-specific parts of normalization.
type Policy struct {
	// StripWeekdayNames removes Turkish weekday names and their abbreviations
	// before scanning.
	StripWeekdayNames bool
	// StripClockTimes removes H:MM and HH:MM tokens so "Kasım 20:30" is not
	// read as the 20th.
	StripClockTimes bool
	// CollapseSeparators folds runs of whitespace, '/' and '.' into a single
	// space.
	CollapseSeparators bool
	// BumpYearOnPastDayInCurrentMonth moves a date in the reference month
	// whose day has already passed to the next year.
	BumpYearOnPastDayInCurrentMonth bool
}

var (
	// BubiletPolicy matches bubilet.com.tr listing cards, which carry weekday
	// names and show times next to the date.
	BubiletPolicy = Policy{
		StripWeekdayNames:               true,
		StripClockTimes:                 true,
		CollapseSeparators:              true,
		BumpYearOnPastDayInCurrentMonth: true,
	}

	// BiletinialPolicy matches biletinial.com listing cards. Text is scanned
	// as-is and dates earlier in the current month stay in the current year.
	BiletinialPolicy = Policy{}
)

var presets = map[string]Policy{
	"bubilet":    BubiletPolicy,
	"biletinial": BiletinialPolicy,
}

// PolicyByName returns the named preset.
func PolicyByName(name string) (Policy, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Policy{}, fmt.Errorf("unknown policy %q (available: %s)", name, strings.Join(PolicyNames(), ", "))
	}
	return p, nil
}

// PolicyNames lists the preset names in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
