package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultTimeout        = 20 * time.Second
)

// ErrUnexpectedStatus is returned when a listing page answers with a
// status other than 200.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// EventSource is implemented by the ticketing site scrapers.
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context, category, city string) (*listing.EventResult, error)
}

// Options configures the HTTP side of a scraper. Zero fields take defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	HTTPClient     *http.Client
	// Now is the reference time for date normalization.
	Now func() time.Time
}

type client struct {
	http           *http.Client
	baseURL        string
	userAgent      string
	acceptLanguage string
	now            func() time.Time
}

func newClient(opts Options, defaultBase string) client {
	c := client{
		http:           opts.HTTPClient,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
		now:            opts.Now,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBase
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.acceptLanguage == "" {
		c.acceptLanguage = DefaultAcceptLanguage
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// get fetches url and returns the body. The caller closes it.
func (c *client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)

	logger.Debug("fetching page", logger.Fields{"url": url})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.Body, nil
}

// getDocument fetches url and parses it with goquery.
func (c *client) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// absURL prefixes site-relative paths with the base URL.
func (c *client) absURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return c.baseURL + href
	default:
		return c.baseURL + "/" + href
	}
}

// joinedText collects the trimmed text nodes under sel, joined by sep.
func joinedText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// titleCase capitalizes each word using Turkish casing rules ("izmir" -> "İzmir").
func titleCase(s string) string {
	return cases.Title(language.Turkish).String(strings.TrimSpace(s))
}

// lowerTurkish lowercases s with Turkish rules ("İlkokul" -> "ilkokul").
func lowerTurkish(s string) string {
	return cases.Lower(language.Turkish).String(strings.TrimSpace(s))
}

// recordScrape logs the outcome of a fetch and updates metrics.
func recordScrape(source string, count, skipped, unparsed int, start time.Time) {
	name := strings.ToLower(source)
	d := time.Since(start)
	logger.RecordTiming("scrape."+name, d)
	logger.AddCounter("scrape."+name+".records", int64(count))
	if skipped > 0 {
		logger.AddCounter("scrape.cards_skipped", int64(skipped))
	}
	if unparsed > 0 {
		logger.AddCounter("datenorm.unparsed", int64(unparsed))
	}
	logger.Info("scrape finished", logger.Fields{
		"source":      source,
		"records":     count,
		"skipped":     skipped,
		"unparsed":    unparsed,
		"duration_ms": d.Milliseconds(),
	})
}
