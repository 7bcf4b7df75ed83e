package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePostDate(t *testing.T) {
	ref := time.Date(2024, time.March, 10, 15, 4, 5, 0, time.UTC)
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{name: "Today", text: "Reposted Today", expected: today},
		{name: "Just now lowercase", text: "just now", expected: today},
		{name: "Just now mixed case", text: "Posted Just Now", expected: today},
		{name: "Yesterday", text: "Yesterday", expected: today.AddDate(0, 0, -1)},
		{name: "Days ago", text: "3 Days Ago", expected: today.AddDate(0, 0, -3)},
		{name: "Single day", text: "1 day ago", expected: today.AddDate(0, 0, -1)},
		{name: "Days across month", text: "15 Days Ago", expected: time.Date(2024, time.February, 24, 0, 0, 0, 0, time.UTC)},
		{name: "Hours ago", text: "5 Hours Ago", expected: today},
		{name: "Unknown sentinel", text: "unknown", expected: today},
		{name: "Empty", text: "", expected: today},
		{name: "Unparseable", text: "Reposted a while back", expected: today},
		{name: "Overflowing days", text: "99999999999999999999 days ago", expected: today},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePostDate(tt.text, ref))
		})
	}
}

func TestResolvePostDate_KeepsLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ref := time.Date(2024, time.March, 10, 23, 30, 0, 0, ny)

	got := ResolvePostDate("Today", ref)

	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, ny), got)
}

func TestResolveSalary(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name     string
		text     *string
		expected *int
	}{
		{name: "Range", text: str("120K-150K Annually"), expected: intPtr(135000)},
		{name: "Odd range truncates", text: str("101K-120K Annually"), expected: intPtr(110500)},
		{name: "Single", text: str("90K Annually"), expected: intPtr(90000)},
		{name: "Absent", text: nil, expected: nil},
		{name: "No K suffix", text: str("Competitive Annually"), expected: nil},
		{name: "Spaced range falls back to first value", text: str("120K - 150K Annually"), expected: intPtr(120000)},
		{name: "Overflow", text: str("99999999999K Annually"), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveSalary(tt.text))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "New York, NY", CleanText("  New York,\n\t NY "))
	assert.Equal(t, "", CleanText(" \n "))
}

func intPtr(v int) *int { return &v }
