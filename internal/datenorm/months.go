package datenorm

import (
	"regexp"
	"strings"
	"time"
)

// monthEntry maps a lowercase Turkish month name to its calendar month.
type monthEntry struct {
	name  string
	month time.Month
}

// monthTable is in declaration order; resolution takes the first entry whose
// 3-character prefix matches.
var monthTable = [...]monthEntry{
	{"ocak", time.January},
	{"şubat", time.February},
	{"mart", time.March},
	{"nisan", time.April},
	{"mayıs", time.May},
	{"haziran", time.June},
	{"temmuz", time.July},
	{"ağustos", time.August},
	{"eylül", time.September},
	{"ekim", time.October},
	{"kasım", time.November},
	{"aralık", time.December},
}

// weekdayNames lists full names before their abbreviations so the longest
// form is removed first ("cumartesi" before "cuma" before "cum").
var weekdayNames = []string{
	"pazartesi", "salı", "çarşamba", "perşembe", "cumartesi", "cuma", "pazar",
	"pzt", "sal", "çar", "per", "cmrt", "cmt", "cum", "paz",
}

var (
	reWeekday   = regexp.MustCompile(`(?i)(` + alternation(weekdayNames) + `)`)
	reClock     = regexp.MustCompile(`\d{1,2}:\d{2}`)
	reSeparator = regexp.MustCompile(`[\s/.]+`)

	// A day after the month must not run into more digits, so "kasım 2024"
	// is not read as the 20th. A day before the month is not anchored:
	// "x5 aralık" is the 5th.
	reMonthFirst = regexp.MustCompile(`(?i)(` + monthAlternation() + `)\s*[-.]?\s*(\d{1,2})\b`)
	reDayFirst   = regexp.MustCompile(`(?i)(\d{1,2})\s*[-.]?\s*(` + monthAlternation() + `)`)
)

func monthAlternation() string {
	names := make([]string, len(monthTable))
	for i, m := range monthTable {
		names[i] = m.name
	}
	return alternation(names)
}

// alternation joins words into a regex alternation where i and ı stand for
// each other. Text is lowercased with Turkish rules, so an ASCII "EKIM"
// arrives as "ekım", and pages typed without a Turkish keyboard write
// "kasim".
func alternation(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = iFolded.Replace(regexp.QuoteMeta(w))
	}
	return strings.Join(parts, "|")
}

var iFolded = strings.NewReplacer("ı", "[ıi]", "i", "[ıi]")

// resolveMonth finds the month whose name shares the first three characters
// with text, ignoring case and the dotted/dotless i distinction.
func resolveMonth(text string) (time.Month, bool) {
	key := monthKey(text)
	for _, m := range monthTable {
		if monthKey(m.name) == key {
			return m.month, true
		}
	}
	return 0, false
}

// sameMonthName reports whether two month spellings agree on their first three
// characters.
func sameMonthName(a, b string) bool {
	return monthKey(a) == monthKey(b)
}

func monthKey(s string) string {
	r := []rune(strings.ReplaceAll(lower(s), "ı", "i"))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// MonthByName returns the month for a complete Turkish month name. Case and
// dotted/dotless i are ignored, so "KASIM", "kasim" and "Kasım" agree.
func MonthByName(name string) (time.Month, bool) {
	want := strings.ReplaceAll(lower(strings.TrimSpace(name)), "ı", "i")
	for _, m := range monthTable {
		if strings.ReplaceAll(m.name, "ı", "i") == want {
			return m.month, true
		}
	}
	return 0, false
}
