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

const BubiletURL = "https://www.bubilet.com.tr"

// Placeholders used when a card omits a field.
const (
	NoTitle      = "Başlık Yok"
	NotSpecified = "Belirtilmemiş"
	PriceUnknown = "Belirsiz"
	NoImage      = "Resim Yok"
)

const (
	bubiletCards  = "a.group.block"
	bubiletPrice  = `span[class~="text-[#00c656]"]`
	bubiletDetail = "p.text-gray-500"
)

// Bubilet scrapes tag listing pages on bubilet.com.tr.
type Bubilet struct {
	client
	norm *datenorm.Normalizer
}

// NewBubilet creates a Bubilet scraper normalizing dates with policy.
func NewBubilet(opts Options, policy datenorm.Policy) *Bubilet {
	return &Bubilet{
		client: newClient(opts, BubiletURL),
		norm:   datenorm.New(policy),
	}
}

// Name implements EventSource.
func (b *Bubilet) Name() string { return listing.SourceBubilet }

// PageURL returns the listing URL for a category and city.
func (b *Bubilet) PageURL(category, city string) string {
	return fmt.Sprintf("%s/%s/etiket/%s", b.baseURL, Slug(city), Slug(category))
}

// FetchEvents fetches one listing page. Cards repeating a link are dropped.
func (b *Bubilet) FetchEvents(ctx context.Context, category, city string) (*listing.EventResult, error) {
	start := time.Now()
	url := b.PageURL(category, city)

	doc, err := b.getDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("bubilet %s: %w", url, err)
	}

	result := &listing.EventResult{
		Source:   listing.SourceBubilet,
		City:     titleCase(city),
		Category: lowerTurkish(category),
		URL:      url,
		Events:   make([]*listing.Event, 0),
	}

	now := b.now()
	seen := make(map[string]bool)
	var skipped, unparsed int
	doc.Find(bubiletCards).Each(func(_ int, card *goquery.Selection) {
		evt, ok := b.parseCard(card, result.City, result.Category, now)
		if !ok {
			skipped++
			return
		}
		if seen[evt.Link] {
			return
		}
		seen[evt.Link] = true

		if evt.Date == evt.DateText {
			unparsed++
			logger.Debug("date text not recognized", logger.Fields{"source": listing.SourceBubilet, "date_text": evt.DateText})
		}
		result.Events = append(result.Events, evt)
	})
	result.EventCount = len(result.Events)

	recordScrape(listing.SourceBubilet, result.EventCount, skipped, unparsed, start)
	return result, nil
}

func (b *Bubilet) parseCard(card *goquery.Selection, city, category string, now time.Time) (*listing.Event, bool) {
	href, ok := card.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil, false
	}

	evt := listing.NewEvent(listing.SourceBubilet, b.absURL(href))
	evt.City = city
	evt.Category = category
	evt.ImageURL = cardImage(card.Find("img").First())

	evt.Title = NoTitle
	if h3 := card.Find("h3").First(); h3.Length() > 0 {
		evt.Title = strings.TrimSpace(h3.Text())
	}

	details := card.Find(bubiletDetail)
	evt.Venue = NotSpecified
	evt.DateText = NotSpecified
	if details.Length() > 0 {
		evt.Venue = strings.TrimSpace(details.Eq(0).Text())
	}
	if details.Length() > 1 {
		evt.DateText = strings.TrimSpace(details.Eq(1).Text())
	}
	evt.Date, _ = b.norm.Normalize(evt.DateText, now)

	evt.Price = PriceUnknown
	if price := card.Find(bubiletPrice).First(); price.Length() > 0 {
		evt.Price = strings.TrimSpace(price.Text())
	}

	return evt, true
}

// cardImage prefers src; lazy-loaded images carry a data: placeholder there,
// in which case the largest srcset candidate (the last one) is used. Cards
// without a usable image get NoImage.
func cardImage(img *goquery.Selection) string {
	if img.Length() == 0 {
		return NoImage
	}
	if src := img.AttrOr("src", ""); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	srcset := img.AttrOr("srcset", "")
	if srcset == "" {
		return NoImage
	}
	candidates := strings.Split(srcset, ",")
	fields := strings.Fields(candidates[len(candidates)-1])
	if len(fields) == 0 {
		return NoImage
	}
	return fields[0]
}
