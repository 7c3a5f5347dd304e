package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

const (
	MicrofonURL      = "https://microfon.co"
	microfonListPath = "/scholarship"

	// DefaultLocationID is the site's "all of Turkey" location filter.
	DefaultLocationID = 223

	noResultsText = "Aradığınız kriterlere uygun bir sonuç bulunamadı"
)

// Education levels accepted by the scholarship listing.
const (
	LevelHighSchool    = "HighSchool"
	LevelUniversity    = "University"
	LevelPrimarySchool = "PrimarySchool"
)

// ErrInvalidLevel is returned for an education level that is not recognized.
var ErrInvalidLevel = errors.New("invalid education level (use HighSchool/Lise, University/Üniversite, PrimarySchool/İlkokul)")

var levelAliases = map[string]string{
	"highschool":    LevelHighSchool,
	"lise":          LevelHighSchool,
	"university":    LevelUniversity,
	"universite":    LevelUniversity,
	"üniversite":    LevelUniversity,
	"primaryschool": LevelPrimarySchool,
	"ilkokul":       LevelPrimarySchool,
	"ilköğretim":    LevelPrimarySchool,
}

var pageSizeByLevel = map[string]int{
	LevelHighSchool:    20,
	LevelUniversity:    17,
	LevelPrimarySchool: 17,
}

var reApplicationDates = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s*-\s*\d{2}\.\d{2}\.\d{4}`)

// NormalizeLevel maps an English or Turkish level name to the site's value.
// Dotless ı is folded so "LISE" and "lise" agree.
func NormalizeLevel(level string) (string, error) {
	key := strings.ReplaceAll(lowerTurkish(level), "ı", "i")
	if v, ok := levelAliases[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, level)
}

// Microfon scrapes the scholarship listing on microfon.co.
type Microfon struct {
	client
	locationID int
}

// NewMicrofon creates a Microfon scraper. A non-positive locationID selects
// DefaultLocationID.
func NewMicrofon(opts Options, locationID int) *Microfon {
	if locationID <= 0 {
		locationID = DefaultLocationID
	}
	return &Microfon{
		client:     newClient(opts, MicrofonURL),
		locationID: locationID,
	}
}

// Name returns the source name.
func (m *Microfon) Name() string { return listing.SourceMicrofon }

// PageURL returns the listing URL for an already normalized level.
func (m *Microfon) PageURL(level string, page int) string {
	size, ok := pageSizeByLevel[level]
	if !ok {
		size = 20
	}
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))
	q.Set("locationId", strconv.Itoa(m.locationID))
	q.Set("level", level)
	return m.baseURL + microfonListPath + "?" + q.Encode()
}

// FetchScholarships fetches one page of scholarships for level. Pages start at 1.
func (m *Microfon) FetchScholarships(ctx context.Context, level string, page int) (*listing.ScholarshipResult, error) {
	normalized, err := NormalizeLevel(level)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be 1 or greater, got %d", page)
	}

	start := time.Now()
	pageURL := m.PageURL(normalized, page)

	body, err := m.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("microfon %s: %w", pageURL, err)
	}
	defer body.Close()

	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("microfon %s: parsing HTML: %w", pageURL, err)
	}

	result := &listing.ScholarshipResult{
		Source:        listing.SourceMicrofon,
		SelectedLevel: normalized,
		Page:          page,
		URL:           pageURL,
		Scholarships:  make([]*listing.Scholarship, 0),
	}

	if hasNoResults(root) {
		result.NoResults = true
		recordScrape(listing.SourceMicrofon, 0, 0, 0, start)
		return result, nil
	}

	seen := make(map[string]bool)
	var skipped int
	goquery.NewDocumentFromNode(root).Find("div.scholarship-item").Each(func(_ int, card *goquery.Selection) {
		s, ok := m.parseCard(card)
		if !ok {
			skipped++
			return
		}
		if seen[s.DetailURL] {
			return
		}
		seen[s.DetailURL] = true
		result.Scholarships = append(result.Scholarships, s)
	})
	result.ScholarshipCount = len(result.Scholarships)

	recordScrape(listing.SourceMicrofon, result.ScholarshipCount, skipped, 0, start)
	return result, nil
}

// hasNoResults reports whether the page shows the empty-search message.
func hasNoResults(root *html.Node) bool {
	node, err := htmlquery.Query(root, fmt.Sprintf("//p[contains(., '%s')]", noResultsText))
	if err != nil {
		logger.Warn("no-results probe failed", logger.Fields{"error": err.Error()})
		return false
	}
	return node != nil
}

func (m *Microfon) parseCard(card *goquery.Selection) (*listing.Scholarship, bool) {
	link := card.Find(`a[href^="/scholarship/"]`).First()
	if link.Length() == 0 {
		return nil, false
	}
	href := strings.TrimSpace(link.AttrOr("href", ""))

	s := listing.NewScholarship(m.absURL(href))
	s.Title = joinedText(link, "")
	s.Provider = joinedText(card.Find("p.styled-h6").First(), "")
	s.ImageURL = m.absURL(card.Find(`img[alt="Burs İlanı Görseli"]`).First().AttrOr("src", ""))
	s.ApplicationDates = reApplicationDates.FindString(joinedText(card, " "))

	var tags []string
	card.Find("div.istbwq span").Each(func(_ int, span *goquery.Selection) {
		if t := joinedText(span, ""); t != "" {
			tags = append(tags, t)
		}
	})
	if len(tags) > 0 {
		s.Location = tags[0]
	}
	if len(tags) > 1 {
		s.Level = tags[1]
	}

	s.Amount = joinedText(card.Find("div.jGQIFV span").First(), " ")
	s.Duration = joinedText(card.Find("div.jGQIFV p").First(), " ")
	s.Description = joinedText(card.Find("p.clamp-3").First(), " ")

	return s, true
}
