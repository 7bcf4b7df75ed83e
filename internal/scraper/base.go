// Fields extracted from one listing card
// Defensive lookup helpers shared by site scrapers

package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// Unknown marks a field whose markup was missing from the card.
const Unknown = "unknown"

// Fields is the raw, pre-normalization view of a single listing. Every
// string field holds either extracted text or Unknown; SalaryText is nil
// when the card carries no compensation label.
type Fields struct {
	Company    string
	Title      string
	Link       string
	Location   string
	Level      string
	SalaryText *string
	DateText   string
}

// HasLink reports whether the listing carries a usable canonical link.
func (f Fields) HasLink() bool {
	return f.Link != "" && f.Link != Unknown
}

//Scraper defines what a site scraper must provide to the pagination loop
type Scraper interface {
	//Listings splits a rendered page into listing fragments
	Listings(html string) ([]*goquery.Selection, error)

	//Extract pulls every field out of one fragment, never failing
	Extract(card *goquery.Selection) Fields

	//Name is the site name (BuiltIn NYC, ...)
	Name() string
}
