package timewindow

import (
	"time"
)

// Kind identifies which resolver family produced an Expression.
type Kind string

const (
	// KindRelativeNamed covers fixed phrases like "last week" or "yesterday".
	KindRelativeNamed Kind = "relative_named"
	// KindRelativeOffset covers numeric offsets like "last 7 days" or "3 weeks ago".
	KindRelativeOffset Kind = "relative_offset"
	// KindAbsolute covers concrete dates like "on 2024-12-25" or "in March 2024".
	KindAbsolute Kind = "absolute"
	// KindRange covers explicit ranges like "between X and Y" or "since X".
	KindRange Kind = "range"
)

// Expression is one matched-and-resolved interpretation of a question's time
// phrase. Expressions are immutable once built and live only for the duration
// of a single Resolve call.
type Expression struct {
	// SourceText is the question that triggered the match.
	SourceText string
	// MatchedSpan is the literal fragment the pattern captured. Kept for
	// diagnostics only, never re-parsed.
	MatchedSpan string
	// Start and End bound the resolved window. A nil value means the window
	// is unbounded on that side.
	Start *time.Time
	End   *time.Time
	// Confidence ranks competing interpretations. It is a relative score,
	// not a probability, and never affects correctness.
	Confidence float64
	// Kind records the resolver family, used to reason about ties.
	Kind Kind
}

// newExpression builds an Expression, enforcing the start <= end invariant.
// Candidates that would invert the window are discarded rather than emitted.
func newExpression(source, span string, start, end time.Time, confidence float64, kind Kind) (Expression, bool) {
	if end.Before(start) {
		return Expression{}, false
	}
	s, e := start, end
	return Expression{
		SourceText:  source,
		MatchedSpan: span,
		Start:       &s,
		End:         &e,
		Confidence:  confidence,
		Kind:        kind,
	}, true
}

// sentinel used when comparing expressions with a missing bound.
var farPast = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

func boundOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return *t
}

// sameWindow reports whether two expressions resolve to materially identical
// windows, i.e. both bounds differ by less than the given tolerance.
func sameWindow(a, b Expression, tolerance time.Duration) bool {
	return within(boundOr(a.Start, farPast), boundOr(b.Start, farPast), tolerance) &&
		within(boundOr(a.End, farPast), boundOr(b.End, farPast), tolerance)
}

func within(a, b time.Time, tolerance time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}
