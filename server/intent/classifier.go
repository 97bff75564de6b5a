// Package intent maps an analytics question onto the metric it asks about.
package intent

import "strings"

// Metric identifies which email statistic a question is asking about.
type Metric string

const (
	MetricUnknown Metric = "unknown"
	MetricSent    Metric = "sent"
	MetricOpened  Metric = "opened"
	MetricReplied Metric = "replied"
	MetricBounced Metric = "bounced"
)

// Supported lists the metrics a question can resolve to, in display order.
func Supported() []Metric {
	return []Metric{MetricSent, MetricOpened, MetricReplied, MetricBounced}
}

// RuleClassifier performs keyword-based metric classification. It needs no
// network and is the fallback when no LLM is configured.
type RuleClassifier struct {
	sentKeywords    []string
	openedKeywords  []string
	repliedKeywords []string
	bouncedKeywords []string
}

// NewRuleClassifier creates a rule-based classifier with the default
// keyword table.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		// Bounce and reply before open: "no response to opened emails"
		// style questions should land on the more specific metric.
		bouncedKeywords: []string{
			"bounce", "bounced", "bounces", "undeliverable", "failed to deliver",
		},
		repliedKeywords: []string{
			"reply", "replies", "replied", "respond", "responded", "response",
			"wrote back",
		},
		openedKeywords: []string{
			"open", "opened", "opens", "open rate",
		},
		sentKeywords: []string{
			"sent", "send", "deliver", "delivered", "total emails", "how many emails",
		},
	}
}

// Classify determines the metric of the question. Returns MetricUnknown when
// no keyword family matches.
func (c *RuleClassifier) Classify(question string) Metric {
	q := strings.ToLower(question)

	for _, kw := range c.bouncedKeywords {
		if strings.Contains(q, kw) {
			return MetricBounced
		}
	}
	for _, kw := range c.repliedKeywords {
		if strings.Contains(q, kw) {
			return MetricReplied
		}
	}
	for _, kw := range c.openedKeywords {
		if strings.Contains(q, kw) {
			return MetricOpened
		}
	}
	for _, kw := range c.sentKeywords {
		if strings.Contains(q, kw) {
			return MetricSent
		}
	}
	return MetricUnknown
}
