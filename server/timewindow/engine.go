// Package timewindow converts natural-language time phrases inside analytics
// questions ("last week", "since 2024-01-01", "between Jan 1 and Jan 31")
// into concrete timestamp windows.
//
// The engine runs an ordered library of phrase-family patterns over the
// question, resolves every match against a single "now" snapshot, collapses
// near-identical windows and returns the highest-confidence interpretation.
// A question with no recognizable time phrase resolves to (nil, nil), which
// callers treat as "no time constraint".
package timewindow

import (
	"sort"
	"strings"
	"time"
)

// Engine matches time phrases and resolves them to windows. It holds only
// immutable configuration after construction and is safe for concurrent use.
type Engine struct {
	config   *Config
	patterns []pattern
	clock    func() time.Time
}

// NewEngine creates an engine with the default configuration and wall clock.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with the given configuration.
func NewEngineWithConfig(config *Config) *Engine {
	if err := ValidateConfig(config); err != nil {
		panic(err)
	}
	return &Engine{
		config:   config,
		patterns: defaultPatterns(),
		clock:    time.Now,
	}
}

// NewEngineWithClock creates an engine whose "now" comes from the given
// clock. Tests use this to pin resolution to a fixed instant.
func NewEngineWithClock(clock func() time.Time) *Engine {
	e := NewEngine()
	e.clock = clock
	return e
}

// Resolve extracts the best time window from a question. Both results are
// nil when no phrase family matched; that is a legitimate outcome, not an
// error. Matching is case-insensitive and never fails on malformed input.
func (e *Engine) Resolve(question string) (start, end *time.Time) {
	return e.ResolveAt(question, e.clock())
}

// ResolveAt is Resolve with an explicit reference instant. The same now is
// threaded into every resolver so all candidates within one call agree on
// the current week, month and year boundaries.
func (e *Engine) ResolveAt(question string, now time.Time) (start, end *time.Time) {
	candidates := e.Candidates(question, now)
	if len(candidates) == 0 {
		return nil, nil
	}
	best := candidates[0]
	return best.Start, best.End
}

// Candidates returns every deduplicated interpretation of the question,
// ranked by confidence descending. Exposed for diagnostics and tests; most
// callers want Resolve.
func (e *Engine) Candidates(question string, now time.Time) []Expression {
	text := strings.ToLower(strings.TrimSpace(question))
	if len(text) > e.config.MaxQuestionLength {
		text = text[:e.config.MaxQuestionLength]
	}
	if text == "" {
		return nil
	}

	var candidates []Expression
	for _, p := range e.patterns {
		groups := p.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		s, en, ok := p.resolve(groups, now)
		if !ok {
			continue
		}
		expr, ok := newExpression(question, strings.TrimSpace(groups[0]), s, en, p.confidence, p.kind)
		if !ok {
			continue
		}
		candidates = append(candidates, expr)
	}

	// Whole-text fuzzy parse is a last resort: it only runs when no explicit
	// family matched, and only dates near now are believable enough to keep.
	if len(candidates) == 0 {
		if expr, ok := e.fuzzyFallback(question, text, now); ok {
			candidates = append(candidates, expr)
		}
	}

	return e.reduce(candidates)
}

// fuzzyFallback attempts a point-in-time match over the whole question.
func (e *Engine) fuzzyFallback(question, text string, now time.Time) (Expression, bool) {
	t, err := parseDateFuzzy(text, now)
	if err != nil {
		return Expression{}, false
	}
	horizon := time.Duration(e.config.FuzzyMaxYears) * 365 * 24 * time.Hour
	if !within(t, now, horizon) {
		return Expression{}, false
	}
	return newExpression(question, text, t, t, 0.6, KindAbsolute)
}

// reduce collapses duplicate windows and orders the survivors. Two
// expressions are duplicates when both bounds fall within the configured
// tolerance; the higher-confidence one survives. The sort is stable so that
// registration order breaks exact confidence ties.
func (e *Engine) reduce(candidates []Expression) []Expression {
	var unique []Expression
	for _, expr := range candidates {
		duplicate := false
		for i, kept := range unique {
			if sameWindow(expr, kept, e.config.DedupTolerance) {
				duplicate = true
				if expr.Confidence > kept.Confidence {
					unique[i] = expr
				}
				break
			}
		}
		if !duplicate {
			unique = append(unique, expr)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})
	return unique
}
