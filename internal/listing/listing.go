package listing

import (
	"crypto/sha1"
	"fmt"
)

// Source names
const (
	SourceBiletinial = "Biletinial"
	SourceBubilet    = "Bubilet"
	SourceMicrofon   = "Microfon"
)

// Event is a single show, concert or screening listed on a ticketing site.
type Event struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"source" yaml:"source"`
	City     string `json:"city" yaml:"city"`
	Category string `json:"category" yaml:"category"`
	Title    string `json:"title" yaml:"title"`
	Venue    string `json:"venue,omitempty" yaml:"venue,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`           // normalized, see datenorm
	DateText string `json:"date_text,omitempty" yaml:"date_text,omitempty"` // as shown on the page
	Price    string `json:"price,omitempty" yaml:"price,omitempty"`
	Link     string `json:"link" yaml:"link"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Scholarship is a single scholarship announcement.
type Scholarship struct {
	ID               string `json:"id" yaml:"id"`
	Provider         string `json:"provider" yaml:"provider"`
	Title            string `json:"title" yaml:"title"`
	DetailURL        string `json:"detail_url" yaml:"detail_url"`
	ImageURL         string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	ApplicationDates string `json:"application_dates,omitempty" yaml:"application_dates,omitempty"`
	Location         string `json:"location,omitempty" yaml:"location,omitempty"`
	Level            string `json:"level,omitempty" yaml:"level,omitempty"`
	Amount           string `json:"amount,omitempty" yaml:"amount,omitempty"`
	Duration         string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EventResult is the outcome of scraping one city/category listing page.
type EventResult struct {
	Source     string   `json:"source" yaml:"source"`
	City       string   `json:"city" yaml:"city"`
	Category   string   `json:"category" yaml:"category"`
	URL        string   `json:"url" yaml:"url"`
	EventCount int      `json:"event_count" yaml:"event_count"`
	Events     []*Event `json:"events" yaml:"events"`
}

// ScholarshipResult is the outcome of scraping one scholarship listing page.
type ScholarshipResult struct {
	Source           string         `json:"source" yaml:"source"`
	SelectedLevel    string         `json:"selected_level" yaml:"selected_level"`
	Page             int            `json:"page" yaml:"page"`
	URL              string         `json:"url" yaml:"url"`
	NoResults        bool           `json:"no_results" yaml:"no_results"`
	ScholarshipCount int            `json:"scholarship_count" yaml:"scholarship_count"`
	Scholarships     []*Scholarship `json:"scholarships" yaml:"scholarships"`
}

// GenerateID creates a deterministic ID from the source name and the
// listing's canonical URL.
func GenerateID(source, link string) string {
	h := sha1.New()
	h.Write([]byte(source + "|" + link))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewEvent creates an Event with its ID populated.
func NewEvent(source, link string) *Event {
	return &Event{
		ID:     GenerateID(source, link),
		Source: source,
		Link:   link,
	}
}

// NewScholarship creates a Scholarship with its ID populated.
func NewScholarship(detailURL string) *Scholarship {
	return &Scholarship{
		ID:        GenerateID(SourceMicrofon, detailURL),
		DetailURL: detailURL,
	}
}

// Key implements Record.
func (e *Event) Key() string { return e.ID }

// DateValue implements Record.
func (e *Event) DateValue() string { return e.Date }

// Key implements Record.
func (s *Scholarship) Key() string { return s.ID }

// DateValue implements Record.
func (s *Scholarship) DateValue() string { return s.ApplicationDates }
