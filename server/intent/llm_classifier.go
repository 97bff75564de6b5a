package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/coralbricks/mailsight/server/ai"
)

// ClassifyResult represents the LLM classification result.
type ClassifyResult struct {
	Metric     Metric  `json:"metric"`
	Confidence float64 `json:"confidence"`
}

// LLMClassifier uses a chat model for metric classification. It gives better
// accuracy on phrasings the keyword table never anticipated, and falls back
// to the rule-based classifier whenever the model is unreachable or returns
// something unparseable.
type LLMClassifier struct {
	provider *ai.Provider
	fallback *RuleClassifier
}

// NewLLMClassifier creates an LLM-backed classifier on top of the provider.
func NewLLMClassifier(provider *ai.Provider) *LLMClassifier {
	return &LLMClassifier{
		provider: provider,
		fallback: NewRuleClassifier(),
	}
}

// Classify determines the metric of the question using the LLM, falling back
// to keyword rules on any error.
func (c *LLMClassifier) Classify(ctx context.Context, question string) Metric {
	result, err := c.classifyWithDetails(ctx, question)
	if err != nil {
		slog.Warn("LLM metric classification failed, using fallback",
			"error", err,
			"question", truncateForLog(question, 50))
		return c.fallback.Classify(question)
	}
	return result.Metric
}

func (c *LLMClassifier) classifyWithDetails(ctx context.Context, question string) (*ClassifyResult, error) {
	// Classification should be fast; cap it independently of the caller.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	content, err := c.provider.ChatJSON(ctx, []ai.Message{
		{Role: openai.ChatMessageRoleSystem, Content: metricSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s", question)},
	})
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}

	result, err := parseClassifyResponse(content)
	if err != nil {
		slog.Warn("Failed to parse LLM classification response",
			"content", content,
			"error", err)
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	slog.Debug("LLM metric classification completed",
		"question", truncateForLog(question, 30),
		"metric", result.Metric,
		"confidence", result.Confidence)

	return result, nil
}

// parseClassifyResponse parses the LLM JSON response.
func parseClassifyResponse(content string) (*ClassifyResult, error) {
	content = strings.TrimSpace(content)

	// Handle potential markdown code blocks.
	if strings.HasPrefix(content, "```") {
		re := regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
		matches := re.FindStringSubmatch(content)
		if len(matches) > 1 {
			content = matches[1]
		}
	}

	var raw struct {
		Metric     string  `json:"metric"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	return &ClassifyResult{
		Metric:     mapMetric(raw.Metric),
		Confidence: raw.Confidence,
	}, nil
}

// mapMetric converts a raw model string to a Metric.
func mapMetric(s string) Metric {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sent", "send", "delivered":
		return MetricSent
	case "opened", "open", "opens":
		return MetricOpened
	case "replied", "reply", "replies", "responded":
		return MetricReplied
	case "bounced", "bounce", "bounces":
		return MetricBounced
	default:
		slog.Warn("Unknown metric from LLM", "raw_metric", s)
		return MetricUnknown
	}
}

// truncateForLog truncates a string for logging purposes.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

const metricSystemPrompt = `You classify email-campaign analytics questions.
Answer with a JSON object: {"metric": "...", "confidence": 0.0-1.0}.

Metrics:
sent: how many emails were sent or delivered
opened: how many emails were opened
replied: how many emails got a reply
bounced: how many emails bounced, including per-domain breakdowns

If the question matches none of these, use "unknown".`
