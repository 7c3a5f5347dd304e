package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/etkinlik-toplayici/etkinlik/internal/calendar"
	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatICS  OutputFormat = "ics"
)

// OutputOptions controls how results are rendered.
type OutputOptions struct {
	Format  OutputFormat
	Verbose bool
	Styled  bool            // ANSI styling for text output
	Now     time.Time       // DTSTAMP for ics output
	New     map[string]bool // keys of listings not seen before
	OnlyNew bool
}

// WriteEvents writes an event result in the requested format.
func WriteEvents(w io.Writer, result *listing.EventResult, opts OutputOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Events, opts.Now))
		return err
	case FormatText, "":
		return writeEventsText(w, result, opts)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// WriteScholarships writes a scholarship result in the requested format.
func WriteScholarships(w io.Writer, result *listing.ScholarshipResult, opts OutputOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatText, "":
		return writeScholarshipsText(w, result, opts)
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func writeEventsText(w io.Writer, result *listing.EventResult, opts OutputOptions) error {
	st := newStyles(opts.Styled)

	fmt.Fprintln(w, st.header(strings.Join([]string{result.Source, result.City, result.Category}, " | ")))

	if result.EventCount == 0 {
		if opts.OnlyNew {
			fmt.Fprintln(w, "No new events found.")
		} else {
			fmt.Fprintln(w, "No events found.")
		}
		return nil
	}

	newCount := 0
	for _, evt := range result.Events {
		fmt.Fprintln(w)
		prefix := ""
		if opts.New[evt.ID] {
			newCount++
			if !opts.OnlyNew {
				prefix = st.badge("NEW") + " "
			}
		}
		fmt.Fprintf(w, "%s%s\n", prefix, st.title(evt.Title))

		details := []string{st.date(displayDate(evt.Date))}
		if place := joinNonEmpty(", ", evt.Venue, evt.City); place != "" {
			details = append(details, place)
		}
		if evt.Price != "" {
			details = append(details, evt.Price)
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(details, st.muted(" | ")))
		if evt.Link != "" {
			fmt.Fprintf(w, "    %s\n", st.muted(evt.Link))
		}
		if opts.Verbose {
			fmt.Fprintf(w, "    ID: %s\n", evt.ID)
			if evt.DateText != "" && evt.DateText != evt.Date {
				fmt.Fprintf(w, "    Date text: %s\n", evt.DateText)
			}
		}
	}

	fmt.Fprintln(w)
	if opts.OnlyNew {
		fmt.Fprintf(w, "Total: %d new %s\n", result.EventCount, plural(result.EventCount, "event", "events"))
	} else {
		fmt.Fprintf(w, "Total: %d %s (%d new)\n", result.EventCount, plural(result.EventCount, "event", "events"), newCount)
	}
	return nil
}

func writeScholarshipsText(w io.Writer, result *listing.ScholarshipResult, opts OutputOptions) error {
	st := newStyles(opts.Styled)

	fmt.Fprintln(w, st.header(fmt.Sprintf("%s | %s | page %d", result.Source, result.SelectedLevel, result.Page)))

	if result.NoResults || result.ScholarshipCount == 0 {
		if opts.OnlyNew && !result.NoResults {
			fmt.Fprintln(w, "No new scholarships found.")
		} else {
			fmt.Fprintln(w, "No scholarships found.")
		}
		return nil
	}

	newCount := 0
	for _, s := range result.Scholarships {
		fmt.Fprintln(w)
		prefix := ""
		if opts.New[s.ID] {
			newCount++
			if !opts.OnlyNew {
				prefix = st.badge("NEW") + " "
			}
		}
		fmt.Fprintf(w, "%s%s\n", prefix, st.title(s.Title))

		details := []string{}
		if s.Provider != "" {
			details = append(details, s.Provider)
		}
		if s.ApplicationDates != "" {
			details = append(details, st.date("Başvuru: "+s.ApplicationDates))
		}
		if amount := joinNonEmpty(" / ", s.Amount, s.Duration); amount != "" {
			details = append(details, amount)
		}
		if len(details) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(details, st.muted(" | ")))
		}
		if s.DetailURL != "" {
			fmt.Fprintf(w, "    %s\n", st.muted(s.DetailURL))
		}
		if opts.Verbose {
			fmt.Fprintf(w, "    ID: %s\n", s.ID)
			if loc := joinNonEmpty(", ", s.Location, s.Level); loc != "" {
				fmt.Fprintf(w, "    Location: %s\n", loc)
			}
			if s.Description != "" {
				fmt.Fprintf(w, "    %s\n", s.Description)
			}
		}
	}

	fmt.Fprintln(w)
	if opts.OnlyNew {
		fmt.Fprintf(w, "Total: %d new %s\n", result.ScholarshipCount, plural(result.ScholarshipCount, "scholarship", "scholarships"))
	} else {
		fmt.Fprintf(w, "Total: %d %s (%d new)\n", result.ScholarshipCount, plural(result.ScholarshipCount, "scholarship", "scholarships"), newCount)
	}
	return nil
}

func displayDate(date string) string {
	if date == "" {
		return "tarih yok"
	}
	return date
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
