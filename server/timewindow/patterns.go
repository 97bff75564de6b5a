package timewindow

import (
	"regexp"
	"time"
)

// pattern binds one phrase family to its resolver and base confidence.
// Registration order is the final tie-break: when two families match with
// equal confidence and materially different windows, the earlier one wins.
type pattern struct {
	re         *regexp.Regexp
	resolve    resolverFunc
	confidence float64
	kind       Kind
}

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day // documented approximation, see resolveLastNUnits
)

// defaultPatterns builds the ordered pattern library. The set is fixed at
// engine construction and shared read-only across calls.
func defaultPatterns() []pattern {
	return []pattern{
		// Named relative periods. Exact phrases are the least ambiguous
		// interpretation of a question, so they rank highest.
		{regexp.MustCompile(`\blast\s+week\b`), resolveLastWeek, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bprevious\s+week\b`), resolveLastWeek, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bpast\s+week\b`), resolveLastWeek, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\bthis\s+week\b`), resolveThisWeek, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bcurrent\s+week\b`), resolveThisWeek, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\blast\s+month\b`), resolveLastMonth, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bprevious\s+month\b`), resolveLastMonth, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bpast\s+month\b`), resolveLastMonth, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\bthis\s+month\b`), resolveThisMonth, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bcurrent\s+month\b`), resolveThisMonth, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\blast\s+year\b`), resolveLastYear, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bprevious\s+year\b`), resolveLastYear, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bpast\s+year\b`), resolveLastYear, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\bthis\s+year\b`), resolveThisYear, 0.9, KindRelativeNamed},
		{regexp.MustCompile(`\bcurrent\s+year\b`), resolveThisYear, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\byesterday\b`), resolveYesterday, 0.95, KindRelativeNamed},
		{regexp.MustCompile(`\bprevious\s+day\b`), resolveYesterday, 0.8, KindRelativeNamed},
		{regexp.MustCompile(`\btoday\b`), resolveToday, 0.95, KindRelativeNamed},
		{regexp.MustCompile(`\bcurrent\s+day\b`), resolveToday, 0.8, KindRelativeNamed},

		// Numeric relative offsets. "last N units" and "N units ago" are
		// synonyms and share a resolver per unit.
		{regexp.MustCompile(`\blast\s+(\d{1,3})\s+days?\b`), resolveLastNUnits(day), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\bpast\s+(\d{1,3})\s+days?\b`), resolveLastNUnits(day), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\b(\d{1,3})\s+days?\s+ago\b`), resolveLastNUnits(day), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\blast\s+(\d{1,3})\s+weeks?\b`), resolveLastNUnits(week), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\bpast\s+(\d{1,3})\s+weeks?\b`), resolveLastNUnits(week), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\b(\d{1,3})\s+weeks?\s+ago\b`), resolveLastNUnits(week), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\blast\s+(\d{1,3})\s+months?\b`), resolveLastNUnits(month), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\bpast\s+(\d{1,3})\s+months?\b`), resolveLastNUnits(month), 0.8, KindRelativeOffset},
		{regexp.MustCompile(`\b(\d{1,3})\s+months?\s+ago\b`), resolveLastNUnits(month), 0.8, KindRelativeOffset},

		// Explicit ranges.
		{regexp.MustCompile(`\bsince\s+([^,]+?)(?:\s|$)`), resolveSince, 0.8, KindRange},
		{regexp.MustCompile(`\bbetween\s+([^,]+?)\s+and\s+([^,]+?)(?:\s|$)`), resolveBetween, 0.8, KindRange},
		{regexp.MustCompile(`\bfrom\s+([^,]+?)\s+to\s+([^,]+?)(?:\s|$)`), resolveBetween, 0.8, KindRange},
		{regexp.MustCompile(`\bfrom\s+([^,]+?)\s+until\s+([^,]+?)(?:\s|$)`), resolveBetween, 0.8, KindRange},

		// Absolute dates.
		{regexp.MustCompile(`\bon\s+([^,]+?)(?:\s|$)`), resolveOnDate, 0.7, KindAbsolute},
		{regexp.MustCompile(`\b(?:in|during)\s+(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\b(?:\s+(\d{4}))?`), resolveMonthName, 0.8, KindAbsolute},
	}
}
