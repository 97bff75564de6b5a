// Package answer turns a natural-language question into a finished answer:
// resolve the time window, classify the metric, query the store, format.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/coralbricks/mailsight/server/intent"
	apierrors "github.com/coralbricks/mailsight/server/internal/errors"
	"github.com/coralbricks/mailsight/server/sqlgen"
	"github.com/coralbricks/mailsight/server/timewindow"
	"github.com/coralbricks/mailsight/store"
)

// EventStore is the slice of the store the assembler reads from.
type EventStore interface {
	CountEmailEvents(ctx context.Context, find *store.FindEmailEvent) (int64, error)
	ListEmailEvents(ctx context.Context, find *store.FindEmailEvent) ([]*store.EmailEvent, error)
	CountBouncesByDomain(ctx context.Context, find *store.FindEmailEvent) ([]*store.DomainCount, error)
	QueryReadOnly(ctx context.Context, query string) ([]string, [][]string, error)
}

// MetricClassifier resolves a question to a metric, possibly over the network.
type MetricClassifier interface {
	Classify(ctx context.Context, question string) intent.Metric
}

// Result is a finished answer plus the intermediate decisions that produced
// it, so API responses can echo the resolved window and metric back.
type Result struct {
	Answer string     `json:"answer"`
	Metric string     `json:"metric,omitempty"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// Assembler orchestrates the question-answering pipeline.
type Assembler struct {
	engine *timewindow.Engine
	rules  *intent.RuleClassifier
	events EventStore

	// Optional collaborators. Nil disables the corresponding stage.
	llm       MetricClassifier
	generator *sqlgen.Generator
	formatter *Formatter
}

// Option configures optional assembler stages.
type Option func(*Assembler)

// WithLLMClassifier enables LLM metric classification for questions the
// keyword rules cannot place.
func WithLLMClassifier(c MetricClassifier) Option {
	return func(a *Assembler) { a.llm = c }
}

// WithGenerator enables the first-chance SQL generation path.
func WithGenerator(g *sqlgen.Generator) Option {
	return func(a *Assembler) { a.generator = g }
}

// WithFormatter enables natural-language formatting of raw results.
func WithFormatter(f *Formatter) Option {
	return func(a *Assembler) { a.formatter = f }
}

// NewAssembler creates an assembler over the given engine and store.
func NewAssembler(engine *timewindow.Engine, events EventStore, opts ...Option) *Assembler {
	a := &Assembler{
		engine: engine,
		rules:  intent.NewRuleClassifier(),
		events: events,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

const guidanceMessage = "I can answer: sent, opened, replied (incl. speed), bounced by domain. " +
	"Try questions like 'How many emails were opened last week?'."

// Answer answers the question. It degrades rather than fails: optional
// stages that error fall through to the next strategy, and only store
// errors surface to the caller.
func (a *Assembler) Answer(ctx context.Context, question string) (*Result, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return &Result{Answer: "Please provide a question."}, nil
	}

	// First chance: let the LLM write the query itself.
	if a.generator != nil {
		if result, ok := a.answerWithSQL(ctx, q); ok {
			return result, nil
		}
	}

	metric := a.rules.Classify(q)
	if metric == intent.MetricUnknown && a.llm != nil {
		metric = a.llm.Classify(ctx, q)
	}
	if metric == intent.MetricUnknown {
		return &Result{Answer: guidanceMessage}, nil
	}

	start, end := a.engine.Resolve(q)
	find := &store.FindEmailEvent{SentAfter: start, SentBefore: end}
	scope := ""
	if start != nil || end != nil {
		scope = " in the specified window"
	}

	raw, err := a.answerMetric(ctx, metric, find, scope)
	if err != nil {
		return nil, apierrors.StoreUnavailable(fmt.Sprintf("failed to answer %s question", metric), err)
	}

	return &Result{
		Answer: a.maybeFormat(ctx, q, raw, metric),
		Metric: string(metric),
		Start:  start,
		End:    end,
	}, nil
}

func (a *Assembler) answerMetric(ctx context.Context, metric intent.Metric, find *store.FindEmailEvent, scope string) (string, error) {
	switch metric {
	case intent.MetricSent:
		count, err := a.events.CountEmailEvents(ctx, find)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Total emails sent%s: %s", scope, comma(count)), nil

	case intent.MetricOpened:
		opened := true
		find.Opened = &opened
		count, err := a.events.CountEmailEvents(ctx, find)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Total emails opened%s: %s", scope, comma(count)), nil

	case intent.MetricReplied:
		return a.answerReplied(ctx, find, scope)

	case intent.MetricBounced:
		return a.answerBounced(ctx, find, scope)
	}
	return guidanceMessage, nil
}

func (a *Assembler) answerReplied(ctx context.Context, find *store.FindEmailEvent, scope string) (string, error) {
	replied := true
	find.Replied = &replied
	events, err := a.events.ListEmailEvents(ctx, find)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return fmt.Sprintf("Total people who replied%s: 0", scope), nil
	}

	var totalHours float64
	var measured int
	for _, event := range events {
		if event.RepliedAt == nil {
			continue
		}
		totalHours += event.RepliedAt.Sub(event.SentAt).Hours()
		measured++
	}
	avgHours := 0.0
	if measured > 0 {
		avgHours = totalHours / float64(measured)
	}
	return fmt.Sprintf("Total people who replied%s: %s. Average reply time: %.1f hours",
		scope, comma(int64(len(events))), avgHours), nil
}

func (a *Assembler) answerBounced(ctx context.Context, find *store.FindEmailEvent, scope string) (string, error) {
	bounced := true
	find.Bounced = &bounced
	domains, err := a.events.CountBouncesByDomain(ctx, find)
	if err != nil {
		return "", err
	}

	var total int64
	for _, d := range domains {
		total += d.Count
	}
	if total == 0 {
		return fmt.Sprintf("Total bounced emails%s: 0", scope), nil
	}

	parts := make([]string, 0, len(domains))
	for _, d := range domains {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Domain, comma(d.Count)))
	}
	return fmt.Sprintf("Total bounced emails%s: %s. By domain: %s",
		scope, comma(total), strings.Join(parts, ", ")), nil
}

// answerWithSQL runs the LLM-generated SQL path. Returns ok=false when the
// path is unavailable so the keyword flow takes over; execution errors on a
// generated query produce an answer rather than falling through, since a
// second strategy would silently contradict the first.
func (a *Assembler) answerWithSQL(ctx context.Context, question string) (*Result, bool) {
	query, err := a.generator.Generate(ctx, question)
	if err != nil {
		slog.Debug("SQL generation unavailable", "error", err)
		return nil, false
	}

	cols, rows, err := a.events.QueryReadOnly(ctx, query)
	if err != nil {
		msg := fmt.Sprintf("SQL execution error: %v", err)
		if a.formatter != nil {
			msg = a.formatter.FormatError(ctx, question, msg)
		}
		return &Result{Answer: msg}, true
	}

	raw := sqlgen.RenderTable(cols, rows)
	return &Result{Answer: a.maybeFormat(ctx, question, raw, "")}, true
}

func (a *Assembler) maybeFormat(ctx context.Context, question, raw string, metric intent.Metric) string {
	if a.formatter == nil {
		return raw
	}
	return a.formatter.Format(ctx, question, raw, string(metric))
}

// comma renders n with thousands separators.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
