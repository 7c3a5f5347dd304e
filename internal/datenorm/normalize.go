package datenorm

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Layout is the rendering of a single resolved date.
const Layout = "02.01.2006"

// RangeSeparator joins the earliest and latest date of a range.
const RangeSeparator = " - "

// Order records which scan produced a candidate.
type Order int

const (
	MonthFirst Order = iota // "Kasım - 28"
	DayFirst                // "28 Kasım"
)

func (o Order) String() string {
	if o == DayFirst {
		return "day-first"
	}
	return "month-first"
}

// DropReason explains why a candidate did not become a date.
type DropReason int

const (
	Kept DropReason = iota
	UnknownMonth
	InvalidDate
)

func (r DropReason) String() string {
	switch r {
	case Kept:
		return "kept"
	case UnknownMonth:
		return "unknown month"
	case InvalidDate:
		return "invalid date"
	default:
		return "DropReason(" + strconv.Itoa(int(r)) + ")"
	}
}

// Candidate is a (day, month-name) pair found in the text, before any
// calendar validation.
type Candidate struct {
	Day   int
	Month string
	Order Order
}

// Resolution is the outcome for one candidate. Date is set only when Reason
// is Kept.
type Resolution struct {
	Candidate
	Date   time.Time
	Reason DropReason
}

// OK reports whether the candidate resolved to a calendar date.
func (r Resolution) OK() bool {
	return r.Reason == Kept
}

// Normalizer applies one Policy. The zero value uses BiletinialPolicy.
type Normalizer struct {
	policy Policy
}

// New creates a Normalizer for the given policy.
func New(p Policy) *Normalizer {
	return &Normalizer{policy: p}
}

// Policy returns the policy the normalizer was built with.
func (n *Normalizer) Policy() Policy {
	return n.policy
}

// Normalize renders the dates found in text relative to now.
//
// It returns ("", false) for empty input. Otherwise the result is always
// usable: "DD.MM.YYYY" for a single day, "DD.MM.YYYY - DD.MM.YYYY" when the
// dates span more than one day, or text unchanged when no date resolved.
func (n *Normalizer) Normalize(text string, now time.Time) (string, bool) {
	if text == "" {
		return "", false
	}

	var dates []time.Time
	for _, r := range n.Explain(text, now) {
		if r.OK() {
			dates = append(dates, r.Date)
		}
	}
	if len(dates) == 0 {
		return text, true
	}

	return Format(slices.MinFunc(dates, time.Time.Compare), slices.MaxFunc(dates, time.Time.Compare)), true
}

// Explain returns one Resolution per candidate, month-first matches first,
// then the day-first matches that were not duplicates.
func (n *Normalizer) Explain(text string, now time.Time) []Resolution {
	if text == "" {
		return nil
	}

	candidates := scan(n.prepare(text))
	out := make([]Resolution, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, n.resolve(c, now))
	}
	return out
}

// Normalize is shorthand for New(p).Normalize(text, now).
func Normalize(text string, now time.Time, p Policy) (string, bool) {
	return New(p).Normalize(text, now)
}

// Format renders a date range; equal calendar days collapse to one date.
func Format(start, end time.Time) string {
	s := start.Format(Layout)
	e := end.Format(Layout)
	if s == e {
		return s
	}
	return s + RangeSeparator + e
}

// prepare lowercases text with Turkish rules and applies the policy's
// cleanup steps.
func (n *Normalizer) prepare(text string) string {
	s := lower(norm.NFKC.String(text))

	if n.policy.StripWeekdayNames {
		s = reWeekday.ReplaceAllString(s, "")
	}
	if n.policy.StripClockTimes {
		s = reClock.ReplaceAllString(s, "")
	}
	if n.policy.CollapseSeparators {
		s = strings.TrimSpace(reSeparator.ReplaceAllString(s, " "))
	}
	return s
}

// scan runs both patterns and merges them. Day-first matches that repeat an
// already collected (day, month) pair are dropped.
func scan(s string) []Candidate {
	var monthFirst, dayFirst []Candidate

	for _, m := range reMonthFirst.FindAllStringSubmatch(s, -1) {
		if day, err := strconv.Atoi(m[2]); err == nil {
			monthFirst = append(monthFirst, Candidate{Day: day, Month: m[1], Order: MonthFirst})
		}
	}
	for _, m := range reDayFirst.FindAllStringSubmatch(s, -1) {
		if day, err := strconv.Atoi(m[1]); err == nil {
			dayFirst = append(dayFirst, Candidate{Day: day, Month: m[2], Order: DayFirst})
		}
	}

	combined := monthFirst
	for _, c := range dayFirst {
		if !containsPair(combined, c) {
			combined = append(combined, c)
		}
	}

	if len(combined) == 0 && len(dayFirst) > 0 {
		combined = dayFirst
	}
	return combined
}

func containsPair(list []Candidate, c Candidate) bool {
	for _, have := range list {
		if have.Day == c.Day && sameMonthName(have.Month, c.Month) {
			return true
		}
	}
	return false
}

// resolve picks a year for the candidate and validates the calendar date.
func (n *Normalizer) resolve(c Candidate, now time.Time) Resolution {
	month, ok := resolveMonth(c.Month)
	if !ok {
		return Resolution{Candidate: c, Reason: UnknownMonth}
	}

	year := now.Year()
	if month < now.Month() {
		year++
	} else if n.policy.BumpYearOnPastDayInCurrentMonth && month == now.Month() && c.Day < now.Day() {
		year++
	}

	// time.Date normalizes overflow (Feb 30 -> Mar 2); a changed month or day
	// means the date does not exist.
	d := time.Date(year, month, c.Day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != c.Day {
		return Resolution{Candidate: c, Reason: InvalidDate}
	}
	return Resolution{Candidate: c, Date: d}
}

// lower applies Turkish case mapping (I -> ı, İ -> i). A Caser is stateful,
// so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}
