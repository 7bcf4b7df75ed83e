package scraper

import (
	"strings"

	"go-jobmarket-scraper/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

// Step moves from one node to a related node. A step that finds nothing
// returns an empty selection, which ends the lookup.
type Step func(*goquery.Selection) *goquery.Selection

// Find descends to the first descendant matching selector.
func Find(selector string) Step {
	return func(s *goquery.Selection) *goquery.Selection {
		return s.Find(selector).First()
	}
}

// Up climbs to the closest ancestor matching selector.
func Up(selector string) Step {
	return func(s *goquery.Selection) *goquery.Selection {
		return s.ParentsFiltered(selector).First()
	}
}

// Next moves to the first following sibling matching selector.
func Next(selector string) Step {
	return func(s *goquery.Selection) *goquery.Selection {
		return s.NextAllFiltered(selector).First()
	}
}

func walk(root *goquery.Selection, steps []Step) (*goquery.Selection, bool) {
	if root == nil || root.Length() == 0 {
		return nil, false
	}
	cur := root
	for _, step := range steps {
		cur = step(cur)
		if cur == nil || cur.Length() == 0 {
			return nil, false
		}
	}
	return cur, true
}

// Locate follows steps from root and returns the cleaned text of the node
// it lands on. It reports false when any link of the path is missing or the
// text is blank.
func Locate(root *goquery.Selection, steps ...Step) (string, bool) {
	node, ok := walk(root, steps)
	if !ok {
		return "", false
	}
	text := normalize.CleanText(node.Text())
	return text, text != ""
}

// LocateAttr is Locate for an attribute value instead of text.
func LocateAttr(root *goquery.Selection, attr string, steps ...Step) (string, bool) {
	node, ok := walk(root, steps)
	if !ok {
		return "", false
	}
	val, exists := node.Attr(attr)
	val = strings.TrimSpace(val)
	return val, exists && val != ""
}

// OrUnknown returns text, or Unknown when the lookup failed.
func OrUnknown(text string, ok bool) string {
	if !ok {
		return Unknown
	}
	return text
}

// FirstText scans the nodes matched by selector under root and returns the
// first cleaned text accepted by match.
func FirstText(root *goquery.Selection, selector string, match func(string) bool) (string, bool) {
	if root == nil {
		return "", false
	}
	var found string
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalize.CleanText(s.Text())
		if text != "" && match(text) {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}
