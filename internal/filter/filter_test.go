package filter

import (
	"testing"
	"time"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// Friday
var refNow = time.Date(2024, time.November, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	return timePtr(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func testEvent(title, venue, city, date string) *listing.Event {
	evt := listing.NewEvent(listing.SourceBubilet, "https://example.com/"+title)
	evt.Title = title
	evt.Venue = venue
	evt.City = city
	evt.Date = date
	return evt
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"zero value", &Filter{}, true},
		{"date from", &Filter{DateFrom: timePtr(refNow)}, false},
		{"weekends only", &Filter{WeekendsOnly: true}, false},
		{"upcoming only", &Filter{UpcomingOnly: true}, false},
		{"open only", &Filter{OpenOnly: true}, false},
		{"title", &Filter{Titles: []string{"Hamlet"}}, false},
		{"venue", &Filter{Venues: []string{"AASSM"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	hamlet := testEvent("Hamlet", "AASSM", "İzmir", "20.11.2024")                         // Wednesday
	weekRun := testEvent("Caz Haftası", "Kültürpark", "İzmir", "18.11.2024 - 22.11.2024") // Mon-Fri
	weekend := testEvent("Konser", "Bostanlı Suat Taşer", "İzmir", "22.11.2024 - 23.11.2024")
	past := testEvent("Eski Oyun", "AASSM", "İzmir", "01.11.2024")
	undated := testEvent("Yakında", "Belirtilmemiş", "Ankara", "Belirtilmemiş")

	tests := []struct {
		name   string
		filter *Filter
		evt    *listing.Event
		want   bool
	}{
		{"empty matches", NewFilter(), hamlet, true},

		{"from before event", &Filter{DateFrom: dayPtr(2024, 11, 19)}, hamlet, true},
		{"from on event day", &Filter{DateFrom: dayPtr(2024, 11, 20)}, hamlet, true},
		{"from after event", &Filter{DateFrom: dayPtr(2024, 11, 21)}, hamlet, false},
		{"to before event", &Filter{DateTo: dayPtr(2024, 11, 19)}, hamlet, false},
		{"to with time of day", &Filter{DateTo: timePtr(time.Date(2024, 11, 20, 18, 0, 0, 0, time.UTC))}, hamlet, true},
		{"range overlaps start", &Filter{DateFrom: dayPtr(2024, 11, 10), DateTo: dayPtr(2024, 11, 18)}, weekRun, true},
		{"range overlaps end", &Filter{DateFrom: dayPtr(2024, 11, 22), DateTo: dayPtr(2024, 11, 30)}, weekRun, true},
		{"range inside event", &Filter{DateFrom: dayPtr(2024, 11, 19), DateTo: dayPtr(2024, 11, 20)}, weekRun, true},
		{"range misses event", &Filter{DateFrom: dayPtr(2024, 11, 23), DateTo: dayPtr(2024, 11, 30)}, weekRun, false},
		{"undated kept by date window", &Filter{DateFrom: dayPtr(2025, 1, 1)}, undated, true},

		{"weekday event not weekend", &Filter{WeekendsOnly: true}, hamlet, false},
		{"weekday run not weekend", &Filter{WeekendsOnly: true}, weekRun, false},
		{"run touching saturday", &Filter{WeekendsOnly: true}, weekend, true},
		{"undated kept by weekends", &Filter{WeekendsOnly: true}, undated, true},

		{"upcoming keeps future", &Filter{UpcomingOnly: true}, hamlet, true},
		{"upcoming drops past", &Filter{UpcomingOnly: true}, past, false},
		{"upcoming keeps undated", &Filter{UpcomingOnly: true}, undated, true},

		{"title substring", &Filter{Titles: []string{"ham"}}, hamlet, true},
		{"title any of", &Filter{Titles: []string{"otello", "HAMLET"}}, hamlet, true},
		{"title miss", &Filter{Titles: []string{"otello"}}, hamlet, false},
		{"venue turkish case", &Filter{Venues: []string{"KÜLTÜRPARK"}}, weekRun, true},
		{"venue miss", &Filter{Venues: []string{"Kültürpark"}}, hamlet, false},
		{"city dotted capital", &Filter{Cities: []string{"izmir"}}, hamlet, true},
		{"city ascii capital", &Filter{Cities: []string{"IZMIR"}}, hamlet, true},
		{"city miss", &Filter{Cities: []string{"ankara"}}, hamlet, false},

		{"all criteria", &Filter{
			DateFrom:     dayPtr(2024, 11, 20),
			DateTo:       dayPtr(2024, 11, 30),
			Titles:       []string{"konser"},
			Cities:       []string{"izmir"},
			WeekendsOnly: true,
			UpcomingOnly: true,
		}, weekend, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.evt, refNow); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.evt.Date, got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []*listing.Event{
		testEvent("Hamlet", "AASSM", "İzmir", "20.11.2024"),
		testEvent("Konser", "Arena", "İzmir", "23.11.2024"),
		testEvent("Eski", "AASSM", "İzmir", "01.11.2024"),
	}

	f := &Filter{Venues: []string{"aassm"}, UpcomingOnly: true}
	got := f.Apply(events, refNow)
	if len(got) != 1 || got[0].Title != "Hamlet" {
		t.Errorf("Apply() = %v, want only Hamlet", got)
	}

	if got := NewFilter().Apply(events, refNow); len(got) != 3 {
		t.Errorf("empty filter Apply() len = %d, want 3", len(got))
	}

	if got := (&Filter{Titles: []string{"none"}}).Apply(events, refNow); got == nil || len(got) != 0 {
		t.Errorf("Apply() with no matches = %v, want empty non-nil", got)
	}
}

func TestFilter_ApplyScholarships(t *testing.T) {
	open := &listing.Scholarship{Title: "Lise Bursu", Provider: "Eğitim Vakfı", Location: "Tüm Türkiye", ApplicationDates: "01.11.2024 - 30.11.2024"}
	closed := &listing.Scholarship{Title: "Üniversite Bursu", Provider: "Vakıf", Location: "İstanbul", ApplicationDates: "01.09.2024 - 30.09.2024"}
	unknown := &listing.Scholarship{Title: "Tarihsiz Burs", Provider: "Dernek", Location: "Ankara"}
	all := []*listing.Scholarship{open, closed, unknown}

	tests := []struct {
		name   string
		filter *Filter
		want   []*listing.Scholarship
	}{
		{"empty", NewFilter(), all},
		{"open only", &Filter{OpenOnly: true}, []*listing.Scholarship{open, unknown}},
		{"title or provider", &Filter{Titles: []string{"vakfı", "vakıf"}}, []*listing.Scholarship{open, closed}},
		{"location", &Filter{Cities: []string{"istanbul"}}, []*listing.Scholarship{closed}},
		{"window", &Filter{DateFrom: dayPtr(2024, 10, 1)}, []*listing.Scholarship{open, unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.ApplyScholarships(all, refNow)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i].Title, tt.want[i].Title)
				}
			}
		})
	}
}

func TestFilter_String(t *testing.T) {
	if got := NewFilter().String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	f := &Filter{
		DateFrom:     dayPtr(2024, 12, 1),
		Titles:       []string{"Hamlet", "Otello"},
		WeekendsOnly: true,
	}
	want := "From: 01.12.2024 | Titles: Hamlet, Otello | Weekends only"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFilter_Clone(t *testing.T) {
	orig := &Filter{DateFrom: dayPtr(2024, 12, 1), Titles: []string{"a"}, UpcomingOnly: true}
	clone := orig.Clone()

	clone.Titles[0] = "b"
	*clone.DateFrom = time.Time{}

	if orig.Titles[0] != "a" || orig.DateFrom.IsZero() {
		t.Error("Clone shares memory with original")
	}
	if !clone.UpcomingOnly {
		t.Error("Clone lost flags")
	}
}
