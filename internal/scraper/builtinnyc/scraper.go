package builtinnyc

import (
	"fmt"
	"net/url"
	"strings"

	"go-jobmarket-scraper/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultOrigin       = "https://www.builtinnyc.com"
	DefaultCardSelector = "div[data-id='job-card']"

	companySelector = "a[data-id='company-title']"
	titleSelector   = "a[data-id='job-card-title']"
	locationIcon    = "i.fa-location-dot"
	clockIcon       = "i.fa-clock"
	labelSpans      = "span.font-barlow.text-gray-04"
	levelMarker     = "level"
	salaryMarker    = "Annually"
	salaryMagnitude = "K"
)

type BuiltInScraper struct {
	origin       string // scheme://host, no trailing slash
	scheme       string
	cardSelector string
}

// NewBuiltInScraper builds a scraper for BuiltIn listing cards. Relative job
// links are prefixed with origin.
func NewBuiltInScraper(origin, cardSelector string) (*BuiltInScraper, error) {
	if origin == "" {
		origin = DefaultOrigin
	}
	if cardSelector == "" {
		cardSelector = DefaultCardSelector
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid site origin %q: %w", origin, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("site origin %q must be an absolute URL", origin)
	}
	return &BuiltInScraper{
		origin:       strings.TrimRight(origin, "/"),
		scheme:       u.Scheme,
		cardSelector: cardSelector,
	}, nil
}

func (s *BuiltInScraper) Name() string {
	return "BuiltIn NYC"
}

// Listings returns every job card on a rendered page. A page without cards
// yields an empty slice.
func (s *BuiltInScraper) Listings(html string) ([]*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}

	var cards []*goquery.Selection
	doc.Find(s.cardSelector).Each(func(_ int, card *goquery.Selection) {
		cards = append(cards, card)
	})
	return cards, nil
}

func (s *BuiltInScraper) Extract(card *goquery.Selection) scraper.Fields {
	fields := scraper.Fields{
		Company:  scraper.OrUnknown(scraper.Locate(card, scraper.Find(companySelector))),
		Title:    scraper.OrUnknown(scraper.Locate(card, scraper.Find(titleSelector))),
		Link:     scraper.Unknown,
		Location: scraper.OrUnknown(scraper.Locate(card, scraper.Find(locationIcon), scraper.Up("div"), scraper.Next("div"), scraper.Find("span"))),
		Level:    scraper.OrUnknown(scraper.FirstText(card, labelSpans, isLevel)),
		DateText: scraper.OrUnknown(scraper.Locate(card, scraper.Find(clockIcon), scraper.Up("span"))),
	}

	if href, ok := scraper.LocateAttr(card, "href", scraper.Find(titleSelector)); ok {
		fields.Link = s.absoluteLink(href)
	}

	if salary, ok := scraper.FirstText(card, labelSpans, isSalary); ok {
		fields.SalaryText = &salary
	}

	return fields
}

// absoluteLink prefixes relative paths with the site origin. The href text
// is kept byte for byte.
func (s *BuiltInScraper) absoluteLink(href string) string {
	lower := strings.ToLower(href)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return s.scheme + ":" + href
	case strings.HasPrefix(href, "/"):
		return s.origin + href
	default:
		return s.origin + "/" + href
	}
}

func isLevel(text string) bool {
	return strings.Contains(text, levelMarker)
}

func isSalary(text string) bool {
	return strings.Contains(text, salaryMarker) && strings.Contains(text, salaryMagnitude)
}
