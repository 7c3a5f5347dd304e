package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/etkinlik-toplayici/etkinlik/internal/filter"
	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
	"github.com/etkinlik-toplayici/etkinlik/internal/notifier"
	"github.com/etkinlik-toplayici/etkinlik/internal/scraper"
	"github.com/etkinlik-toplayici/etkinlik/internal/storage"
)

// scrapeFlags are shared by all scrape subcommands.
type scrapeFlags struct {
	format    string
	sort      string
	onlyNew   bool
	noSave    bool
	from      string
	to        string
	when      string
	titles    []string
	venues    []string
	locations []string
	weekends  bool
	upcoming  bool
	open      bool
	notify    string
}

func (a *app) scrapeCmd() *cobra.Command {
	var sf scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape listings from a source site",
		Long: `Scrape one listing page from a source site, normalize dates, compare the
result with the previous run's snapshot, and print the (filtered) listings.

Exits with status 2 when --only-new is set and new listings were found.
With --notify, new listings that pass the filters are also announced.`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&sf.format, "format", "f", string(FormatText), "Output format: text, json, yaml or ics (events only)")
	pf.StringVar(&sf.sort, "sort", "", "Sort order: date, title or venue (default: site order)")
	pf.BoolVar(&sf.onlyNew, "only-new", false, "Show only listings not seen in the previous run")
	pf.BoolVar(&sf.noSave, "no-save", false, "Do not update the stored snapshot")
	pf.StringVar(&sf.from, "from", "", "Only listings on or after this day (DD.MM.YYYY)")
	pf.StringVar(&sf.to, "to", "", "Only listings on or before this day (DD.MM.YYYY)")
	pf.StringVar(&sf.when, "when", "", "Date window such as 'Aralık', '5 Aralık' or '01.12.2024 - 15.12.2024'")
	pf.StringSliceVar(&sf.titles, "title", nil, "Title contains (repeatable)")
	pf.StringSliceVar(&sf.venues, "venue", nil, "Venue contains (repeatable)")
	pf.StringSliceVar(&sf.locations, "location", nil, "City or scholarship location contains (repeatable)")
	pf.BoolVar(&sf.weekends, "weekends", false, "Only events touching a Saturday or Sunday")
	pf.BoolVar(&sf.upcoming, "upcoming", false, "Drop events that are already over")
	pf.BoolVar(&sf.open, "open", false, "Only scholarships currently accepting applications")
	pf.StringVar(&sf.notify, "notify", "", "Announce new listings: dry-run, telegram or twitter")

	cmd.AddCommand(a.scrapeEventsCmd(&sf, "biletinial", "Scrape a Biletinial city listing"))
	cmd.AddCommand(a.scrapeEventsCmd(&sf, "bubilet", "Scrape a Bubilet city tag listing"))
	cmd.AddCommand(a.scrapeMicrofonCmd(&sf))

	return cmd
}

func (a *app) scrapeEventsCmd(sf *scrapeFlags, name, short string) *cobra.Command {
	var city, category string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(city) == "" {
				return fmt.Errorf("--city is required")
			}
			opts, err := sf.outputOptions(a, true)
			if err != nil {
				return err
			}
			f, err := sf.filter(a.now)
			if err != nil {
				return err
			}
			return a.runEvents(cmd.Context(), a.eventSource(name), category, city, sf, f, opts)
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City name, e.g. 'Eskişehir' (required)")
	defaultCategory := "sinema"
	if name == "bubilet" {
		defaultCategory = "tiyatro"
	}
	cmd.Flags().StringVar(&category, "category", defaultCategory, "Category, e.g. sinema, tiyatro, muzik, opera, standup")

	return cmd
}

func (a *app) scrapeMicrofonCmd(sf *scrapeFlags) *cobra.Command {
	var (
		level string
		page  int
	)

	cmd := &cobra.Command{
		Use:   "microfon",
		Short: "Scrape a Microfon scholarship listing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := sf.outputOptions(a, false)
			if err != nil {
				return err
			}
			f, err := sf.filter(a.now)
			if err != nil {
				return err
			}
			return a.runScholarships(cmd.Context(), level, page, sf, f, opts)
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Education level: HighSchool/Lise, University/Üniversite, PrimarySchool/İlkokul (required)")
	cmd.Flags().IntVar(&page, "page", 1, "Result page, starting at 1")
	cmd.MarkFlagRequired("level")

	return cmd
}

func (a *app) scraperOptions(baseURL string) scraper.Options {
	return scraper.Options{
		BaseURL:        baseURL,
		Timeout:        a.cfg.Timeout(),
		UserAgent:      a.cfg.HTTP.UserAgent,
		AcceptLanguage: a.cfg.HTTP.AcceptLanguage,
		Now:            func() time.Time { return a.now },
	}
}

func (a *app) eventSource(name string) scraper.EventSource {
	if name == "bubilet" {
		return scraper.NewBubilet(a.scraperOptions(a.cfg.Sources.Bubilet.BaseURL), a.cfg.BubiletPolicy())
	}
	return scraper.NewBiletinial(a.scraperOptions(a.cfg.Sources.Biletinial.BaseURL), a.cfg.BiletinialPolicy())
}

func (a *app) runEvents(ctx context.Context, src scraper.EventSource, category, city string, sf *scrapeFlags, f *filter.Filter, opts OutputOptions) error {
	n, err := a.notifier(sf.notify)
	if err != nil {
		return err
	}

	result, err := src.FetchEvents(ctx, category, city)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	scope := storage.Scope(scraper.Slug(src.Name()), scraper.Slug(result.City), scraper.Slug(result.Category))
	diff, snap, err := trackChanges(ctx, a, scope, result.Events, sf.noSave)
	if err != nil {
		return err
	}

	events := result.Events
	if sf.onlyNew {
		events = diff.New
	}
	events = f.Apply(events, a.now)
	sortEvents(events, SortOrder(sf.sort))

	out := *result
	out.Events = events
	out.EventCount = len(events)

	opts.New = idSet(diff.New)
	opts.OnlyNew = sf.onlyNew
	if err := WriteEvents(a.stdout, &out, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if n != nil {
		fresh := f.Apply(diff.New, a.now)
		if err := a.announce(ctx, n, notifier.EventMessages(fresh, a.cfg.Notify.MaxMessages)); err != nil {
			return err
		}
	}
	if err := a.saveSnapshot(ctx, snap); err != nil {
		return err
	}

	if sf.onlyNew && len(events) > 0 {
		a.exitCode = ExitNewListings
	}
	logger.LogMetrics(a.log)
	return nil
}

func (a *app) runScholarships(ctx context.Context, level string, page int, sf *scrapeFlags, f *filter.Filter, opts OutputOptions) error {
	n, err := a.notifier(sf.notify)
	if err != nil {
		return err
	}
	src := scraper.NewMicrofon(a.scraperOptions(a.cfg.Sources.Microfon.BaseURL), a.cfg.Sources.Microfon.LocationID)

	result, err := src.FetchScholarships(ctx, level, page)
	if err != nil {
		return fmt.Errorf("fetching scholarships: %w", err)
	}

	scope := storage.Scope(scraper.Slug(src.Name()), scraper.Slug(result.SelectedLevel))
	diff, snap, err := trackChanges(ctx, a, scope, result.Scholarships, sf.noSave)
	if err != nil {
		return err
	}

	list := result.Scholarships
	if sf.onlyNew {
		list = diff.New
	}
	list = f.ApplyScholarships(list, a.now)
	sortScholarships(list, SortOrder(sf.sort))

	out := *result
	out.Scholarships = list
	out.ScholarshipCount = len(list)

	opts.New = idSet(diff.New)
	opts.OnlyNew = sf.onlyNew
	if err := WriteScholarships(a.stdout, &out, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if n != nil {
		fresh := f.ApplyScholarships(diff.New, a.now)
		if err := a.announce(ctx, n, notifier.ScholarshipMessages(fresh, a.cfg.Notify.MaxMessages)); err != nil {
			return err
		}
	}
	if err := a.saveSnapshot(ctx, snap); err != nil {
		return err
	}

	if sf.onlyNew && len(list) > 0 {
		a.exitCode = ExitNewListings
	}
	logger.LogMetrics(a.log)
	return nil
}

// notifier returns nil when announcements are off.
func (a *app) notifier(name string) (notifier.Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "dry-run":
		return notifier.NewDryRunNotifier(a.stderr), nil
	case "telegram":
		tg := a.cfg.Notify.Telegram
		n, err := notifier.NewTelegram(tg.APIURL, envOr(EnvTelegramToken, tg.BotToken), tg.ChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram notifier: %w", err)
		}
		return n, nil
	case "twitter":
		tw := a.cfg.Notify.Twitter
		n, err := notifier.NewTwitterNotifier(notifier.TwitterCredentials{
			APIKey:       envOr("TWITTER_API_KEY", tw.APIKey),
			APISecret:    envOr("TWITTER_API_SECRET", tw.APISecret),
			AccessToken:  envOr("TWITTER_ACCESS_TOKEN", tw.AccessToken),
			AccessSecret: envOr("TWITTER_ACCESS_SECRET", tw.AccessSecret),
		})
		if err != nil {
			return nil, fmt.Errorf("twitter notifier: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid --notify %q (must be 'dry-run', 'telegram' or 'twitter')", name)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *app) announce(ctx context.Context, n notifier.Notifier, msgs []notifier.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := n.Notify(ctx, msgs); err != nil {
		return fmt.Errorf("announcing new listings: %w", err)
	}
	a.log.Info("announced new listings", logger.Fields{"messages": len(msgs)})
	return nil
}

// trackChanges diffs records against the stored snapshot for scope. The
// returned snapshot is what saveSnapshot should store once the run has
// finished; nil when noSave is set.
func trackChanges[T listing.Record](ctx context.Context, a *app, scope string, records []T, noSave bool) (*listing.DiffResult[T], *listing.Snapshot, error) {
	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	previous, err := store.LoadSnapshot(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot: %w", err)
	}

	diff := listing.Diff(previous, records)
	for _, c := range diff.DateChanged {
		a.log.Info("listing date changed", logger.Fields{
			"scope": scope,
			"id":    c.Key,
			"old":   c.OldValue,
			"new":   c.NewValue,
		})
	}
	a.log.Info("compared with previous snapshot", logger.Fields{
		"scope":        scope,
		"known":        len(previous.Entries),
		"current":      len(records),
		"new":          len(diff.New),
		"date_changed": len(diff.DateChanged),
	})
	logger.SetGauge("snapshot.new", float64(len(diff.New)))

	if noSave {
		return diff, nil, nil
	}

	snap := listing.CreateSnapshot(scope, previous, records, time.Now())
	snap.RunID = a.runID
	return diff, snap, nil
}

// saveSnapshot stores snap. Callers save only after announcements went out,
// so a failed announcement leaves the listings new for the next run.
func (a *app) saveSnapshot(ctx context.Context, snap *listing.Snapshot) error {
	if snap == nil {
		return nil
	}

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	if err := store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func idSet[T listing.Record](records []T) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, r := range records {
		set[r.Key()] = true
	}
	return set
}

func (sf *scrapeFlags) outputOptions(a *app, events bool) (OutputOptions, error) {
	format := OutputFormat(strings.ToLower(sf.format))
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	case FormatICS:
		if !events {
			return OutputOptions{}, fmt.Errorf("ics output is only available for events")
		}
	default:
		return OutputOptions{}, fmt.Errorf("invalid format: %s (must be 'text', 'json', 'yaml' or 'ics')", sf.format)
	}

	switch SortOrder(sf.sort) {
	case "", SortByDate, SortByTitle, SortByVenue:
	default:
		return OutputOptions{}, fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'venue')", sf.sort)
	}

	return OutputOptions{
		Format:  format,
		Verbose: a.flagVerbose,
		Styled:  format == FormatText && isTerminal(a.stdout),
		Now:     a.now,
	}, nil
}

func (sf *scrapeFlags) filter(now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()

	if sf.when != "" {
		from, to, err := filter.ParseDateRange(sf.when, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	if sf.from != "" {
		d, err := filter.ParseDay(sf.from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		f.DateFrom = &d
	}
	if sf.to != "" {
		d, err := filter.ParseDay(sf.to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return nil, fmt.Errorf("--to %s is before --from %s", f.DateTo.Format("02.01.2006"), f.DateFrom.Format("02.01.2006"))
	}

	f.Titles = append(f.Titles, sf.titles...)
	f.Venues = append(f.Venues, sf.venues...)
	f.Cities = append(f.Cities, sf.locations...)
	f.WeekendsOnly = sf.weekends
	f.UpcomingOnly = sf.upcoming
	f.OpenOnly = sf.open

	return f, nil
}
