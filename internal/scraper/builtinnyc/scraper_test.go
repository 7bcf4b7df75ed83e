package builtinnyc

import (
	"testing"

	"go-jobmarket-scraper/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCard = `
<div data-id="job-card">
  <a data-id="company-title" href="/company/acme"><span>Acme&nbsp;Corp</span></a>
  <h2><a data-id="job-card-title" href="/job/backend-engineer/123">
    Backend Engineer
  </a></h2>
  <div class="d-flex">
    <div><i class="fa-regular fa-location-dot"></i></div>
    <div><span>New York, NY</span></div>
  </div>
  <span class="font-barlow text-gray-04"><i class="fa-regular fa-clock"></i>3 Days Ago</span>
  <span class="font-barlow text-gray-04">Hybrid</span>
  <span class="font-barlow text-gray-04">Senior level</span>
  <span class="font-barlow text-gray-04">Mid level</span>
  <span class="font-barlow text-gray-04">120K-150K Annually</span>
  <span class="font-barlow text-gray-04">90K Annually</span>
</div>`

const noLocationCard = `
<div data-id="job-card">
  <a data-id="company-title">Globex</a>
  <a data-id="job-card-title" href="https://jobs.example.com/globex/42">Data Engineer</a>
  <span class="font-barlow text-gray-04"><i class="fa-regular fa-clock"></i>Yesterday</span>
  <span class="font-barlow text-gray-04">Entry level</span>
  <span class="font-barlow text-gray-04">95K Annually</span>
</div>`

const bareCard = `<div data-id="job-card"><p>Promoted</p></div>`

func newTestScraper(t *testing.T) *BuiltInScraper {
	t.Helper()
	s, err := NewBuiltInScraper(DefaultOrigin, "")
	require.NoError(t, err)
	return s
}

func extractOne(t *testing.T, html string) scraper.Fields {
	t.Helper()
	s := newTestScraper(t)
	cards, err := s.Listings(html)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	return s.Extract(cards[0])
}

func TestBuiltInScraper_Extract_FullCard(t *testing.T) {
	fields := extractOne(t, fullCard)

	assert.Equal(t, "Acme Corp", fields.Company)
	assert.Equal(t, "Backend Engineer", fields.Title)
	assert.Equal(t, "https://www.builtinnyc.com/job/backend-engineer/123", fields.Link)
	assert.Equal(t, "New York, NY", fields.Location)
	assert.Equal(t, "3 Days Ago", fields.DateText)
	assert.Equal(t, "Senior level", fields.Level, "first level label wins")
	require.NotNil(t, fields.SalaryText)
	assert.Equal(t, "120K-150K Annually", *fields.SalaryText, "first salary label wins")
	assert.True(t, fields.HasLink())
}

func TestBuiltInScraper_Extract_MissingLocation(t *testing.T) {
	fields := extractOne(t, noLocationCard)

	assert.Equal(t, scraper.Unknown, fields.Location)
	assert.Equal(t, "Globex", fields.Company)
	assert.Equal(t, "Data Engineer", fields.Title)
	assert.Equal(t, "https://jobs.example.com/globex/42", fields.Link, "absolute links pass through")
	assert.Equal(t, "Yesterday", fields.DateText)
	assert.Equal(t, "Entry level", fields.Level)
	require.NotNil(t, fields.SalaryText)
	assert.Equal(t, "95K Annually", *fields.SalaryText)
}

func TestBuiltInScraper_Extract_BareCard(t *testing.T) {
	fields := extractOne(t, bareCard)

	assert.Equal(t, scraper.Fields{
		Company:  scraper.Unknown,
		Title:    scraper.Unknown,
		Link:     scraper.Unknown,
		Location: scraper.Unknown,
		Level:    scraper.Unknown,
		DateText: scraper.Unknown,
	}, fields)
	assert.False(t, fields.HasLink())
}

func TestBuiltInScraper_Extract_LocationPathBroken(t *testing.T) {
	// icon present but no sibling block holding the text
	html := `<div data-id="job-card">
	  <a data-id="job-card-title" href="/job/x/1">X</a>
	  <div><div><i class="fa-regular fa-location-dot"></i></div></div>
	</div>`

	fields := extractOne(t, html)

	assert.Equal(t, scraper.Unknown, fields.Location)
	assert.Equal(t, "https://www.builtinnyc.com/job/x/1", fields.Link)
}

func TestBuiltInScraper_Listings(t *testing.T) {
	s := newTestScraper(t)

	t.Run("many cards", func(t *testing.T) {
		cards, err := s.Listings("<html><body>" + fullCard + noLocationCard + "</body></html>")
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	})

	t.Run("no cards", func(t *testing.T) {
		cards, err := s.Listings(`<html><body><h1>No results</h1></body></html>`)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}

func TestBuiltInScraper_absoluteLink(t *testing.T) {
	s := newTestScraper(t)

	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{name: "Root relative", href: "/job/a/1", expected: "https://www.builtinnyc.com/job/a/1"},
		{name: "Relative with query", href: "/job/a/1?ref=list", expected: "https://www.builtinnyc.com/job/a/1?ref=list"},
		{name: "Absolute", href: "https://builtin.com/job/a/1", expected: "https://builtin.com/job/a/1"},
		{name: "Protocol relative", href: "//cdn.builtinnyc.com/job/a/1", expected: "https://cdn.builtinnyc.com/job/a/1"},
		{name: "No leading slash", href: "job/a/1", expected: "https://www.builtinnyc.com/job/a/1"},
		{name: "Bare percent kept", href: "/job/100%-remote/1", expected: "https://www.builtinnyc.com/job/100%-remote/1"},
		{name: "Space not encoded", href: "/job/a b/2", expected: "https://www.builtinnyc.com/job/a b/2"},
		{name: "Dot segments kept", href: "/job/../x/3", expected: "https://www.builtinnyc.com/job/../x/3"},
		{name: "Absolute kept verbatim", href: "http://[::1", expected: "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.absoluteLink(tt.href))
		})
	}
}

func TestNewBuiltInScraper_RejectsRelativeOrigin(t *testing.T) {
	_, err := NewBuiltInScraper("/jobs", "")
	assert.Error(t, err)
}

func TestIsLevel(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{text: "Senior level", expected: true},
		{text: "Entry level", expected: true},
		{text: "Level 2 clearance required", expected: false},
		{text: "Hybrid", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, isLevel(tt.text))
		})
	}
}
