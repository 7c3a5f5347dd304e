// Package datenorm turns Turkish free-text date fragments scraped from listing
// pages into canonical, sortable dates.
//
// A fragment such as "Cmt 28 Kasım 20:30" or "Kasım - 28 Ocak - 31" is scanned
// for (day, month-name) pairs. Each pair is resolved against an injected
// reference time to pick a year, validated as a real calendar date, and the
// earliest and latest survivors are rendered as "DD.MM.YYYY" or
// "DD.MM.YYYY - DD.MM.YYYY". When nothing resolves, the input is returned
// verbatim so callers can still show what the page said.
//
// Source-specific behavior (weekday and clock stripping, the same-month
// past-day year bump) is selected with a Policy. The package never reads the
// wall clock and holds no mutable state; all functions are safe for concurrent
// use.
package datenorm
