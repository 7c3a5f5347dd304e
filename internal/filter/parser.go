package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// ParseDay parses a single "DD.MM.YYYY" calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(datenorm.Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use DD.MM.YYYY)", s)
	}
	return t, nil
}

// ParseDateRange parses a date window given on the command line.
//
// Supported formats:
//   - "01.12.2024" or "01.12.2024 - 15.12.2024"
//   - "Aralık" - the whole month
//   - anything the date normalizer understands, such as "5 Aralık" or
//     "28 Kasım, 3 Aralık"
//
// Years are inferred relative to now the same way listing dates are: a month
// earlier than the current one belongs to next year.
// Returns (dateFrom, dateTo, error) as UTC calendar days, both inclusive.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if from, to, ok := listing.ParseRange(input); ok {
		return &from, &to, nil
	}

	if month, ok := datenorm.MonthByName(input); ok {
		year := now.Year()
		if month < now.Month() {
			year++
		}
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		return &from, &to, nil
	}

	normalized, _ := datenorm.Normalize(input, now, datenorm.BiletinialPolicy)
	if from, to, ok := listing.ParseRange(normalized); ok {
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range %q. Use '01.12.2024', '01.12.2024 - 15.12.2024', 'Aralık' or '5 Aralık - 10 Aralık'", input)
}
