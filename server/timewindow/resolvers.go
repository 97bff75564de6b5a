package timewindow

import (
	"strconv"
	"time"
)

// A resolverFunc turns one regex match into a concrete window. groups is the
// full submatch slice (groups[0] is the whole match). Returning ok=false
// discards the candidate without aborting the rest of the scan.
type resolverFunc func(groups []string, now time.Time) (start, end time.Time, ok bool)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// startOfISOWeek returns Monday 00:00:00 of the week containing t.
func startOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday's week
	}
	return startOfDay(t.AddDate(0, 0, -(weekday - 1)))
}

// resolveLastWeek covers the full ISO week before the current one, Monday
// 00:00:00 through Sunday 23:59:59.
func resolveLastWeek(_ []string, now time.Time) (time.Time, time.Time, bool) {
	start := startOfISOWeek(now).AddDate(0, 0, -7)
	return start, endOfDay(start.AddDate(0, 0, 6)), true
}

// resolveThisWeek covers Monday 00:00:00 of the current ISO week through now.
func resolveThisWeek(_ []string, now time.Time) (time.Time, time.Time, bool) {
	return startOfISOWeek(now), now, true
}

// resolveLastMonth covers the whole previous calendar month, respecting
// month length and leap years.
func resolveLastMonth(_ []string, now time.Time) (time.Time, time.Time, bool) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastDayOfLastMonth := firstOfThisMonth.AddDate(0, 0, -1)
	start := time.Date(lastDayOfLastMonth.Year(), lastDayOfLastMonth.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, endOfDay(lastDayOfLastMonth), true
}

func resolveThisMonth(_ []string, now time.Time) (time.Time, time.Time, bool) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now, true
}

// resolveLastYear covers Jan 1 00:00:00 through Dec 31 23:59:59 of the
// previous year.
func resolveLastYear(_ []string, now time.Time) (time.Time, time.Time, bool) {
	startOfThisYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return startOfThisYear.AddDate(-1, 0, 0), startOfThisYear.Add(-time.Second), true
}

func resolveThisYear(_ []string, now time.Time) (time.Time, time.Time, bool) {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now, true
}

func resolveYesterday(_ []string, now time.Time) (time.Time, time.Time, bool) {
	yesterday := now.AddDate(0, 0, -1)
	return startOfDay(yesterday), endOfDay(yesterday), true
}

func resolveToday(_ []string, now time.Time) (time.Time, time.Time, bool) {
	return startOfDay(now), now, true
}

// resolveLastNUnits handles both "last N <unit>" and "N <unit> ago"; the two
// phrasings are synonyms and must produce identical windows. The window runs
// from the start of the day N units back through now. Months are
// approximated as 30 days; this is a documented convention carried over from
// the upstream dataset tooling, not calendar arithmetic.
func resolveLastNUnits(unit time.Duration) resolverFunc {
	return func(groups []string, now time.Time) (time.Time, time.Time, bool) {
		if len(groups) < 2 {
			return time.Time{}, time.Time{}, false
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil || n <= 0 {
			return time.Time{}, time.Time{}, false
		}
		return startOfDay(now.Add(-time.Duration(n) * unit)), now, true
	}
}

// resolveSince parses the fragment after "since" and runs through now.
func resolveSince(groups []string, now time.Time) (time.Time, time.Time, bool) {
	if len(groups) < 2 {
		return time.Time{}, time.Time{}, false
	}
	start, err := parseDateFuzzy(groups[1], now)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, now, true
}

// resolveOnDate covers the full calendar day of the parsed date.
func resolveOnDate(groups []string, now time.Time) (time.Time, time.Time, bool) {
	if len(groups) < 2 {
		return time.Time{}, time.Time{}, false
	}
	day, err := parseDateFuzzy(groups[1], now)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return startOfDay(day), endOfDay(day), true
}

// resolveBetween handles "between X and Y", "from X to Y" and
// "from X until Y". An inverted range discards the candidate.
func resolveBetween(groups []string, now time.Time) (time.Time, time.Time, bool) {
	if len(groups) < 3 {
		return time.Time{}, time.Time{}, false
	}
	start, err := parseDateFuzzy(groups[1], now)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDateFuzzy(groups[2], now)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, endOfDay(end), true
}

// resolveMonthName covers "in <Month>" / "during <Month> [<Year>]" as a full
// calendar month. The year defaults to the current one when omitted.
func resolveMonthName(groups []string, now time.Time) (time.Time, time.Time, bool) {
	if len(groups) < 2 {
		return time.Time{}, time.Time{}, false
	}
	month, ok := monthsByName[groups[1]]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	year := now.Year()
	if len(groups) >= 3 && groups[2] != "" {
		y, err := strconv.Atoi(groups[2])
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		year = y
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Second), true
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}
