package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

func testEvents() []*listing.Event {
	a := listing.NewEvent(listing.SourceBiletinial, "https://biletinial.com/a")
	a.Title, a.Venue, a.City, a.Date, a.DateText = "Hamlet", "AASSM", "İzmir", "20.11.2024", "20 Kasım"
	b := listing.NewEvent(listing.SourceBiletinial, "https://biletinial.com/b")
	b.Title, b.City, b.Date = "Carmen", "İzmir", "Yakında"
	return []*listing.Event{a, b}
}

func TestWriteEvents_Text(t *testing.T) {
	events := testEvents()
	result := &listing.EventResult{Source: "Biletinial", City: "İzmir", Category: "tiyatro", EventCount: 2, Events: events}

	var buf bytes.Buffer
	err := WriteEvents(&buf, result, OutputOptions{
		Format:  FormatText,
		Verbose: true,
		New:     map[string]bool{events[0].ID: true},
	})
	if err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Biletinial | İzmir | tiyatro",
		"[NEW] Hamlet",
		"20.11.2024 | AASSM, İzmir",
		"https://biletinial.com/a",
		"Date text: 20 Kasım",
		"ID: " + events[1].ID,
		"Total: 2 events (1 new)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[NEW] Carmen") {
		t.Error("Carmen is not new")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("unstyled output contains ANSI escapes")
	}
}

func TestWriteEvents_Empty(t *testing.T) {
	result := &listing.EventResult{Source: "Bubilet", City: "Ankara", Category: "konser", Events: []*listing.Event{}}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, result, OutputOptions{Format: FormatText, OnlyNew: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No new events found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteScholarships_Text(t *testing.T) {
	s := listing.NewScholarship("https://microfon.co/scholarship/x")
	s.Title, s.Provider, s.ApplicationDates, s.Amount, s.Duration = "Lise Bursu", "Vakıf", "01.11.2024 - 30.11.2024", "2.000 TL", "9 Ay"
	result := &listing.ScholarshipResult{Source: "Microfon", SelectedLevel: "HighSchool", Page: 1, ScholarshipCount: 1, Scholarships: []*listing.Scholarship{s}}

	var buf bytes.Buffer
	if err := WriteScholarships(&buf, result, OutputOptions{Format: FormatText}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Microfon | HighSchool | page 1", "Lise Bursu", "Vakıf | Başvuru: 01.11.2024 - 30.11.2024 | 2.000 TL / 9 Ay", "Total: 1 scholarship (0 new)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	result.NoResults, result.ScholarshipCount, result.Scholarships = true, 0, nil
	if err := WriteScholarships(&buf, result, OutputOptions{Format: FormatText}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No scholarships found.") {
		t.Errorf("no-results output = %q", buf.String())
	}
}

func TestWriteScholarships_RejectsICS(t *testing.T) {
	err := WriteScholarships(&bytes.Buffer{}, &listing.ScholarshipResult{}, OutputOptions{Format: FormatICS})
	if err == nil {
		t.Error("ics should be rejected for scholarships")
	}
}

func TestStyles(t *testing.T) {
	plain := newStyles(false)
	if got := plain.title("x"); got != "x" {
		t.Errorf("plain title = %q", got)
	}
	if got := plain.badge("NEW"); got != "[NEW]" {
		t.Errorf("plain badge = %q", got)
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestJoinNonEmpty(t *testing.T) {
	if got := joinNonEmpty(", ", "AASSM", " ", "İzmir"); got != "AASSM, İzmir" {
		t.Errorf("joinNonEmpty = %q", got)
	}
	if got := joinNonEmpty(", "); got != "" {
		t.Errorf("joinNonEmpty() = %q", got)
	}
}
