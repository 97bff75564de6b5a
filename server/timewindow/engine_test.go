package timewindow

import (
	"sync"
	"testing"
	"time"
)

// fixedNow is a Friday. All window expectations below are derived from it.
var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func TestEngine_ResolveAt(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name      string
		question  string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "last week spans previous ISO week",
			question:  "How many emails were sent last week?",
			wantStart: "2024-03-04T00:00:00",
			wantEnd:   "2024-03-10T23:59:59",
		},
		{
			name:      "previous week is a synonym for last week",
			question:  "emails opened previous week",
			wantStart: "2024-03-04T00:00:00",
			wantEnd:   "2024-03-10T23:59:59",
		},
		{
			name:      "this week runs Monday through now",
			question:  "replies this week",
			wantStart: "2024-03-11T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "yesterday covers the full previous day",
			question:  "Show me opens from yesterday",
			wantStart: "2024-03-14T00:00:00",
			wantEnd:   "2024-03-14T23:59:59",
		},
		{
			name:      "today runs midnight through now",
			question:  "bounces today",
			wantStart: "2024-03-15T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "this month runs from the first through now",
			question:  "What happened this month?",
			wantStart: "2024-03-01T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "last month covers all of February including leap day",
			question:  "emails sent last month",
			wantStart: "2024-02-01T00:00:00",
			wantEnd:   "2024-02-29T23:59:59",
		},
		{
			name:      "this year runs from Jan 1 through now",
			question:  "totals this year",
			wantStart: "2024-01-01T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "last year covers the full previous year",
			question:  "campaigns last year",
			wantStart: "2023-01-01T00:00:00",
			wantEnd:   "2023-12-31T23:59:59",
		},
		{
			name:      "last 7 days starts at midnight a week back",
			question:  "Emails bounced in the last 7 days",
			wantStart: "2024-03-08T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "between two ISO dates",
			question:  "Between 2024-01-01 and 2024-01-31",
			wantStart: "2024-01-01T00:00:00",
			wantEnd:   "2024-01-31T23:59:59",
		},
		{
			name:      "from-to range",
			question:  "opens from 2024-02-01 to 2024-02-14",
			wantStart: "2024-02-01T00:00:00",
			wantEnd:   "2024-02-14T23:59:59",
		},
		{
			name:      "from-until range",
			question:  "sent from 2024-02-01 until 2024-02-03",
			wantStart: "2024-02-01T00:00:00",
			wantEnd:   "2024-02-03T23:59:59",
		},
		{
			name:      "since a date runs through now",
			question:  "replies since 2024-01-01",
			wantStart: "2024-01-01T00:00:00",
			wantEnd:   "2024-03-15T10:00:00",
		},
		{
			name:      "on a date covers that calendar day",
			question:  "emails sent on 2024-12-25",
			wantStart: "2024-12-25T00:00:00",
			wantEnd:   "2024-12-25T23:59:59",
		},
		{
			name:      "month name with year covers the calendar month",
			question:  "bounces in March 2024",
			wantStart: "2024-03-01T00:00:00",
			wantEnd:   "2024-03-31T23:59:59",
		},
		{
			name:      "month name without year defaults to current year",
			question:  "opens during February",
			wantStart: "2024-02-01T00:00:00",
			wantEnd:   "2024-02-29T23:59:59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := engine.ResolveAt(tt.question, fixedNow)
			if start == nil || end == nil {
				t.Fatalf("ResolveAt(%q) = (%v, %v), want a window", tt.question, start, end)
			}
			if want := mustTime(t, tt.wantStart); !start.Equal(want) {
				t.Errorf("start = %v, want %v", start, want)
			}
			if want := mustTime(t, tt.wantEnd); !end.Equal(want) {
				t.Errorf("end = %v, want %v", end, want)
			}
		})
	}
}

func TestEngine_NoMatch(t *testing.T) {
	engine := NewEngine()

	questions := []string{
		"What is the total bounce rate?",
		"How many emails were sent?",
		"show me the campaign totals",
		"",
		"   ",
	}

	for _, q := range questions {
		start, end := engine.ResolveAt(q, fixedNow)
		if start != nil || end != nil {
			t.Errorf("ResolveAt(%q) = (%v, %v), want (nil, nil)", q, start, end)
		}
	}
}

// "last N units" and "N units ago" are synonyms and must resolve to the
// same window.
func TestEngine_OffsetSynonyms(t *testing.T) {
	engine := NewEngine()

	pairs := []struct {
		a, b string
	}{
		{"emails in the last 7 days", "emails sent 7 days ago"},
		{"opens in the last 3 weeks", "opens 3 weeks ago"},
		{"replies in the last 2 months", "replies 2 months ago"},
	}

	for _, p := range pairs {
		aStart, aEnd := engine.ResolveAt(p.a, fixedNow)
		bStart, bEnd := engine.ResolveAt(p.b, fixedNow)
		if aStart == nil || bStart == nil {
			t.Fatalf("expected windows for %q and %q", p.a, p.b)
		}
		if !within(*aStart, *bStart, time.Second) || !within(*aEnd, *bEnd, time.Second) {
			t.Errorf("%q = [%v, %v] but %q = [%v, %v]", p.a, aStart, aEnd, p.b, bStart, bEnd)
		}
	}
}

func TestEngine_InvertedRangeDiscarded(t *testing.T) {
	engine := NewEngine()

	start, end := engine.ResolveAt("between 2024-06-01 and 2024-01-01", fixedNow)
	if start != nil || end != nil {
		t.Errorf("inverted range resolved to (%v, %v), want (nil, nil)", start, end)
	}
}

func TestEngine_Deduplication(t *testing.T) {
	engine := NewEngine()

	// Both families resolve to the same window; the reducer must collapse
	// them into a single candidate.
	question := "emails in the last 7 days or 7 days ago"
	candidates := engine.Candidates(question, fixedNow)
	if len(candidates) != 1 {
		t.Fatalf("Candidates(%q) returned %d expressions, want 1", question, len(candidates))
	}
	if candidates[0].Kind != KindRelativeOffset {
		t.Errorf("kind = %s, want %s", candidates[0].Kind, KindRelativeOffset)
	}
}

func TestEngine_HigherConfidenceWins(t *testing.T) {
	engine := NewEngine()

	// "yesterday" (0.95) and "last 7 days" (0.8) produce different windows;
	// the named phrase must win the ranking.
	question := "emails from yesterday and the last 7 days"
	candidates := engine.Candidates(question, fixedNow)
	if len(candidates) < 2 {
		t.Fatalf("expected competing candidates, got %d", len(candidates))
	}
	if candidates[0].MatchedSpan != "yesterday" {
		t.Errorf("winner = %q (%.2f), want yesterday", candidates[0].MatchedSpan, candidates[0].Confidence)
	}

	start, end := engine.ResolveAt(question, fixedNow)
	if start == nil || !start.Equal(mustTime(t, "2024-03-14T00:00:00")) {
		t.Errorf("start = %v, want yesterday 00:00:00", start)
	}
	if end == nil || !end.Equal(mustTime(t, "2024-03-14T23:59:59")) {
		t.Errorf("end = %v, want yesterday 23:59:59", end)
	}
}

func TestEngine_LastWeekProperties(t *testing.T) {
	engine := NewEngine()

	start, end := engine.ResolveAt("sent last week", fixedNow)
	if start == nil || end == nil {
		t.Fatal("expected a window for last week")
	}

	if got, want := end.Sub(*start), 6*24*time.Hour+23*time.Hour+59*time.Minute+59*time.Second; got != want {
		t.Errorf("last week span = %v, want %v", got, want)
	}
	if start.Weekday() != time.Monday {
		t.Errorf("last week starts on %v, want Monday", start.Weekday())
	}

	thisStart, _ := engine.ResolveAt("sent this week", fixedNow)
	if !start.Before(*thisStart) {
		t.Errorf("last week start %v not before this week start %v", start, thisStart)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine()

	first, firstEnd := engine.ResolveAt("opens last month", fixedNow)
	second, secondEnd := engine.ResolveAt("opens last month", fixedNow)
	if !first.Equal(*second) || !firstEnd.Equal(*secondEnd) {
		t.Errorf("resolution not idempotent: [%v, %v] vs [%v, %v]", first, firstEnd, second, secondEnd)
	}
}

func TestEngine_FuzzyFallback(t *testing.T) {
	engine := NewEngine()

	t.Run("bare date resolves to a point in time", func(t *testing.T) {
		candidates := engine.Candidates("show 2024-01-15", fixedNow)
		if len(candidates) != 1 {
			t.Fatalf("got %d candidates, want 1", len(candidates))
		}
		expr := candidates[0]
		if expr.Kind != KindAbsolute {
			t.Errorf("kind = %s, want %s", expr.Kind, KindAbsolute)
		}
		if !expr.Start.Equal(*expr.End) {
			t.Errorf("fuzzy fallback start %v != end %v", expr.Start, expr.End)
		}
	})

	t.Run("dates beyond the horizon are rejected", func(t *testing.T) {
		start, end := engine.ResolveAt("records for 1901-01-01", fixedNow)
		if start != nil || end != nil {
			t.Errorf("implausible date resolved to (%v, %v), want (nil, nil)", start, end)
		}
	})

	t.Run("fallback never outranks an explicit family", func(t *testing.T) {
		candidates := engine.Candidates("opens last week including 2024-01-15", fixedNow)
		for _, expr := range candidates {
			if expr.Confidence < 0.7 {
				t.Errorf("fallback candidate %q present despite explicit match", expr.MatchedSpan)
			}
		}
	})
}

func TestEngine_MalformedFragments(t *testing.T) {
	engine := NewEngine()

	// A bad fragment in one family must not abort the scan; other families
	// still resolve.
	start, end := engine.ResolveAt("since whenever, emails last week", fixedNow)
	if start == nil || end == nil {
		t.Fatal("expected last week to survive the unparseable since-fragment")
	}
	if !start.Equal(mustTime(t, "2024-03-04T00:00:00")) {
		t.Errorf("start = %v, want last week's Monday", start)
	}
	_ = end
}

func TestEngine_ConcurrentResolve(t *testing.T) {
	engine := NewEngine()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				engine.ResolveAt("emails sent last week", fixedNow)
				engine.ResolveAt("between 2024-01-01 and 2024-01-31", fixedNow)
			}
		}()
	}
	wg.Wait()
}

func TestEngine_YearRollover(t *testing.T) {
	engine := NewEngine()
	// Monday, first week of January: last week reaches back into December.
	newYear := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local)

	start, end := engine.ResolveAt("emails last week", newYear)
	if start == nil || end == nil {
		t.Fatal("expected a window")
	}
	if !start.Equal(time.Date(2023, time.December, 25, 0, 0, 0, 0, time.Local)) {
		t.Errorf("start = %v, want 2023-12-25", start)
	}
	if !end.Equal(time.Date(2023, time.December, 31, 23, 59, 59, 0, time.Local)) {
		t.Errorf("end = %v, want 2023-12-31 23:59:59", end)
	}
}

func TestEngine_SundayWeekStart(t *testing.T) {
	engine := NewEngine()
	// On a Sunday the current ISO week still starts the previous Monday.
	sunday := time.Date(2024, time.March, 17, 12, 0, 0, 0, time.Local)

	start, _ := engine.ResolveAt("sent this week", sunday)
	if start == nil {
		t.Fatal("expected a window")
	}
	if !start.Equal(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.Local)) {
		t.Errorf("this week start = %v, want Monday 2024-03-11", start)
	}
}

func TestNewEngineWithClock(t *testing.T) {
	engine := NewEngineWithClock(func() time.Time { return fixedNow })

	start, end := engine.Resolve("opens today")
	if start == nil || end == nil {
		t.Fatal("expected a window")
	}
	if !end.Equal(fixedNow) {
		t.Errorf("end = %v, want injected now %v", end, fixedNow)
	}
}
