package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

const BiletinialURL = "https://biletinial.com"

// MultipleVenues is the address text Biletinial shows for touring events.
const MultipleVenues = "Birden fazla mekanda"

// BiletinialCategories maps accepted category keys to URL segments.
var BiletinialCategories = map[string]string{
	"sinema":  "sinema",
	"tiyatro": "tiyatro",
	"muzik":   "muzik",
	"opera":   "opera-bale",
	"egitim":  "egitim",
	"standup": "stand-up",
}

const defaultBiletinialCategory = "sinema"

// Biletinial scrapes city listing pages on biletinial.com.
type Biletinial struct {
	client
	norm *datenorm.Normalizer
}

// NewBiletinial creates a Biletinial scraper normalizing dates with policy.
func NewBiletinial(opts Options, policy datenorm.Policy) *Biletinial {
	return &Biletinial{
		client: newClient(opts, BiletinialURL),
		norm:   datenorm.New(policy),
	}
}

// Name implements EventSource.
func (b *Biletinial) Name() string { return listing.SourceBiletinial }

// CategorySlug resolves a category key; unknown keys fall back to cinema.
func (b *Biletinial) CategorySlug(key string) string {
	key = Slug(key)
	if slug, ok := BiletinialCategories[key]; ok {
		return slug
	}
	for _, slug := range BiletinialCategories {
		if slug == key {
			return slug
		}
	}
	return defaultBiletinialCategory
}

// PageURL returns the listing URL for a category key and city.
func (b *Biletinial) PageURL(category, city string) string {
	return fmt.Sprintf("%s/tr-tr/%s/%s", b.baseURL, b.CategorySlug(category), Slug(city))
}

// FetchEvents fetches and parses one city/category listing page.
func (b *Biletinial) FetchEvents(ctx context.Context, category, city string) (*listing.EventResult, error) {
	start := time.Now()
	url := b.PageURL(category, city)

	doc, err := b.getDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("biletinial %s: %w", url, err)
	}

	result := &listing.EventResult{
		Source:   listing.SourceBiletinial,
		City:     titleCase(city),
		Category: b.CategorySlug(category),
		URL:      url,
		Events:   make([]*listing.Event, 0),
	}

	now := b.now()
	var skipped, unparsed int
	doc.Find("div.kategori__etkinlikler li").Each(func(_ int, item *goquery.Selection) {
		evt, ok := b.parseCard(item, result.City, result.Category, now)
		if !ok {
			skipped++
			return
		}
		if evt.DateText != "" && evt.Date == evt.DateText {
			unparsed++
			logger.Debug("date text not recognized", logger.Fields{"source": listing.SourceBiletinial, "date_text": evt.DateText})
		}
		result.Events = append(result.Events, evt)
	})
	result.EventCount = len(result.Events)

	recordScrape(listing.SourceBiletinial, result.EventCount, skipped, unparsed, start)
	return result, nil
}

// parseCard extracts one event. Cards without a titled heading link or a
// detail link are skipped.
func (b *Biletinial) parseCard(item *goquery.Selection, city, category string, now time.Time) (*listing.Event, bool) {
	title, ok := item.Find("h3 a").First().Attr("title")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return nil, false
	}

	figure := item.Find("figure").First()
	href, _ := figure.Find("a").First().Attr("href")
	link := b.absURL(href)
	if link == "" {
		return nil, false
	}

	evt := listing.NewEvent(listing.SourceBiletinial, link)
	evt.Title = title
	evt.City = city
	evt.Category = category

	if img := figure.Find("img").First(); img.Length() > 0 {
		if src := img.AttrOr("data-src", ""); src != "" {
			evt.ImageURL = src
		} else {
			evt.ImageURL = img.AttrOr("src", "")
		}
	}

	address := item.Find("address").First()
	if dates := item.Find("p.dates").First(); dates.Length() > 0 {
		evt.DateText = joinedText(dates, " ")
	} else if address.Length() > 0 {
		evt.DateText = joinedText(address.NextAllFiltered("span").First(), " ")
	}
	if evt.DateText != "" {
		evt.Date, _ = b.norm.Normalize(evt.DateText, now)
	}

	if address.Length() > 0 {
		if strings.TrimSpace(address.Text()) == MultipleVenues {
			evt.Venue = MultipleVenues
		} else {
			if c := address.Find("b").First(); c.Length() > 0 {
				evt.City = strings.TrimSpace(c.Text())
			}
			if v := address.Find("small").First(); v.Length() > 0 {
				evt.Venue = strings.TrimSpace(v.Text())
			}
		}
	}

	return evt, true
}
