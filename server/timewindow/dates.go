package timewindow

import (
	"errors"
	"strings"
	"time"
)

// errNoDate is returned when no layout matches any part of the fragment.
var errNoDate = errors.New("no parseable date in fragment")

// dateLayouts are tried in order against a candidate fragment. Most specific
// first, so "2024-01-02" never half-parses as a bare year. time.Parse matches
// textual month names case-insensitively, which suits the lowercased input.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"January 2",
	"Jan 2",
	"January",
	"Jan",
}

// parseDate parses a date fragment against the known layouts. Components the
// layout leaves unset default the way a human reads the phrase: a missing
// year means the current year, a missing day means the first of the month.
func parseDate(fragment string, now time.Time) (time.Time, error) {
	s := strings.Trim(strings.TrimSpace(fragment), ".,;:!?")
	if s == "" {
		return time.Time{}, errNoDate
	}
	layouts := dateLayouts
	// A bare year is only plausible when the fragment is exactly four
	// digits; otherwise any number in the question would parse as a year.
	if len(s) == 4 && isDigits(s) {
		layouts = []string{"2006"}
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		} else {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
		}
		return t, nil
	}
	return time.Time{}, errNoDate
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseDateFuzzy extracts a date from text that may contain unrelated words.
// The whole fragment is tried first, then sliding token windows from widest
// to narrowest, so "the report from March 3, 2024 please" still resolves.
func parseDateFuzzy(fragment string, now time.Time) (time.Time, error) {
	if t, err := parseDate(fragment, now); err == nil {
		return t, nil
	}

	tokens := strings.Fields(fragment)
	for width := 3; width >= 1; width-- {
		if width > len(tokens) {
			continue
		}
		for i := 0; i+width <= len(tokens); i++ {
			candidate := strings.Join(tokens[i:i+width], " ")
			if t, err := parseDate(candidate, now); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, errNoDate
}
