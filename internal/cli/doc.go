// Package cli implements the etkinlik command-line interface.
//
// The cli package provides the Cobra-based commands for scraping event and
// scholarship listings (scrape), normalizing a Turkish date text on its own
// (normalize), and inspecting stored snapshots (snapshots). It wires the
// config, logger, scraper, storage, filter, calendar and notifier packages
// together and renders results as text, JSON, YAML or iCalendar.
package cli
