package notifier

import (
	"context"
	"strings"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// Notifier defines the interface for announcing new listings
type Notifier interface {
	// Notify sends one announcement per message
	Notify(ctx context.Context, msgs []Message) error
}

// Message is a channel-neutral announcement of one listing.
type Message struct {
	Source  string
	Title   string
	Details []string
	Link    string
}

// EventMessage builds the announcement for a new event.
func EventMessage(evt *listing.Event) Message {
	msg := Message{Source: evt.Source, Title: evt.Title, Link: evt.Link}
	if evt.Date != "" {
		msg.Details = append(msg.Details, "📅 "+evt.Date)
	}
	if place := joinNonEmpty(", ", evt.Venue, evt.City); place != "" {
		msg.Details = append(msg.Details, "📍 "+place)
	}
	if evt.Price != "" {
		msg.Details = append(msg.Details, "🎟 "+evt.Price)
	}
	return msg
}

// ScholarshipMessage builds the announcement for a new scholarship.
func ScholarshipMessage(s *listing.Scholarship) Message {
	msg := Message{Source: listing.SourceMicrofon, Title: s.Title, Link: s.DetailURL}
	if s.Provider != "" {
		msg.Details = append(msg.Details, "🏛 "+s.Provider)
	}
	if s.ApplicationDates != "" {
		msg.Details = append(msg.Details, "📅 Başvuru: "+s.ApplicationDates)
	}
	if amount := joinNonEmpty(" / ", s.Amount, s.Duration); amount != "" {
		msg.Details = append(msg.Details, "💰 "+amount)
	}
	return msg
}

// EventMessages converts events, keeping at most max (max <= 0 means all).
func EventMessages(events []*listing.Event, max int) []Message {
	msgs := make([]Message, 0, len(events))
	for _, evt := range limit(events, max) {
		msgs = append(msgs, EventMessage(evt))
	}
	return msgs
}

// ScholarshipMessages converts scholarships, keeping at most max.
func ScholarshipMessages(list []*listing.Scholarship, max int) []Message {
	msgs := make([]Message, 0, len(list))
	for _, s := range limit(list, max) {
		msgs = append(msgs, ScholarshipMessage(s))
	}
	return msgs
}

func limit[T any](items []T, max int) []T {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
