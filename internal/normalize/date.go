package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysAgoRegex  = regexp.MustCompile(`(?i)(\d+)\s+days?`)
	hoursAgoRegex = regexp.MustCompile(`(?i)(\d+)\s+hours?`)
)

// ResolvePostDate turns a relative post-date label ("Today", "Yesterday",
// "3 Days Ago", "5 Hours Ago") into a calendar date relative to ref.
// Unrecognized text resolves to ref's date.
func ResolvePostDate(text string, ref time.Time) time.Time {
	today := dateOf(ref)
	lower := strings.ToLower(text)

	//case 1: today / just now
	if strings.Contains(lower, "today") || strings.Contains(lower, "just now") {
		return today
	}

	//case 2: yesterday
	if strings.Contains(lower, "yesterday") {
		return today.AddDate(0, 0, -1)
	}

	//case 3: "N day(s) ago"
	if match := daysAgoRegex.FindStringSubmatch(text); match != nil {
		days, err := strconv.Atoi(match[1])
		if err != nil {
			return today
		}
		return today.AddDate(0, 0, -days)
	}

	//case 4: hours still count as today
	if hoursAgoRegex.MatchString(text) {
		return today
	}

	//default
	return today
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
