package listing

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{"single date", "28.11.2024", "2024-11-28", "2024-11-28", true},
		{"range", "28.11.2024 - 31.01.2025", "2024-11-28", "2025-01-31", true},
		{"range without spaces", "01.09.2024-30.09.2024", "2024-09-01", "2024-09-30", true},
		{"surrounding whitespace", "  05.01.2025 ", "2025-01-05", "2025-01-05", true},
		{"raw text", "Kasım - 28", "", "", false},
		{"empty", "", "", "", false},
		{"reversed range", "31.01.2025 - 28.11.2024", "", "", false},
		{"bad second half", "28.11.2024 - yakında", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseRange(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseRange(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				if !start.IsZero() || !end.IsZero() {
					t.Errorf("ParseRange(%q) = %v, %v, want zero times", tt.in, start, end)
				}
				return
			}
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("ParseRange(%q) start = %s, want %s", tt.in, got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("ParseRange(%q) end = %s, want %s", tt.in, got, tt.wantEnd)
			}
		})
	}
}

// testBoolMethod is a helper for testing methods that return bool
func testBoolMethod(t *testing.T, methodName string, tests []struct {
	name string
	date string
	want bool
}, fn func(*Event) bool) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{Date: tt.date}
			if got := fn(evt); got != tt.want {
				t.Errorf("Event.%s() = %v, want %v", methodName, got, tt.want)
			}
		})
	}
}

var refNow = time.Date(2024, time.November, 15, 18, 0, 0, 0, time.UTC)

func TestEvent_IsPast(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"yesterday", "14.11.2024", true},
		{"today", "15.11.2024", false},
		{"range still running", "01.11.2024 - 30.11.2024", false},
		{"range finished", "01.10.2024 - 14.11.2024", true},
		{"next year", "05.01.2025", false},
		{"unparseable", "Kasım - 28", false},
	}
	testBoolMethod(t, "IsPast", tests, func(e *Event) bool { return e.IsPast(refNow) })
}

func TestEvent_IsUpcoming(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"yesterday", "14.11.2024", false},
		{"tomorrow", "16.11.2024", true},
		{"unparseable", "Belirtilmemiş", true},
	}
	testBoolMethod(t, "IsUpcoming", tests, func(e *Event) bool { return e.IsUpcoming(refNow) })
}

func TestEvent_IsWithinDays(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"in three days", "18.11.2024", true},
		{"in two weeks", "29.11.2024", false},
		{"range overlapping window", "10.11.2024 - 20.12.2024", true},
		{"past", "01.11.2024", false},
		{"unparseable", "yakında", true},
	}
	testBoolMethod(t, "IsWithinDays", tests, func(e *Event) bool { return e.IsWithinDays(refNow, 7) })

	evt := &Event{Date: "01.01.2030"}
	if !evt.IsWithinDays(refNow, 0) {
		t.Error("IsWithinDays(0) should be true (feature disabled)")
	}
}

func TestScholarship_IsOpen(t *testing.T) {
	tests := []struct {
		dates string
		want  bool
	}{
		{"01.11.2024 - 30.11.2024", true},
		{"15.11.2024 - 15.11.2024", true},
		{"01.10.2024 - 14.11.2024", false},
		{"16.11.2024 - 30.11.2024", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.dates, func(t *testing.T) {
			s := &Scholarship{ApplicationDates: tt.dates}
			if got := s.IsOpen(refNow); got != tt.want {
				t.Errorf("IsOpen(%q) = %v, want %v", tt.dates, got, tt.want)
			}
		})
	}
}
