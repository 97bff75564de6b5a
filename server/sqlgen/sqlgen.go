// Package sqlgen turns a question into a single validated read-only SELECT
// against the analytics schema.
package sqlgen

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/coralbricks/mailsight/server/ai"
)

const schemaDoc = `You are a SQL generator for SQLite. Produce a single SELECT query only. No mutations.
Database schema:

Table contacts(
  id INTEGER PRIMARY KEY,
  email_address TEXT UNIQUE NOT NULL,
  first_name TEXT,
  last_name TEXT,
  company TEXT,
  domain TEXT
)

Table email_events(
  id INTEGER PRIMARY KEY,
  email_address TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  company TEXT,
  subject TEXT,
  campaign_name TEXT NOT NULL,
  sent_at TEXT NOT NULL,
  delivered_at TEXT,
  opened_at TEXT,
  replied_at TEXT,
  bounced INTEGER NOT NULL DEFAULT 0,
  contact_id INTEGER
)

Notes:
- Datetimes are ISO8601 text.
- Use JOINs between email_events.contact_id = contacts.id when referencing contact attributes.
- For bounce grouping by domain, prefer contacts.domain.

Output only SQL without backticks or prose.`

var codeFenceRe = regexp.MustCompile("^```\\w*\\n|```$")

// Generator produces and validates SQL through the AI provider.
type Generator struct {
	provider *ai.Provider
}

// NewGenerator creates a generator on top of the provider.
func NewGenerator(provider *ai.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate asks the model for one SELECT answering the question, then runs
// the statement through Validate. The returned query is safe to hand to a
// read-only executor.
func (g *Generator) Generate(ctx context.Context, question string) (string, error) {
	content, err := g.provider.Chat(ctx, []ai.Message{
		{Role: openai.ChatMessageRoleSystem, Content: schemaDoc},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\nGenerate one SELECT query in SQLite dialect.", question)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}

	query := strings.TrimSpace(codeFenceRe.ReplaceAllString(strings.TrimSpace(content), ""))
	if err := Validate(query); err != nil {
		return "", fmt.Errorf("generated SQL rejected: %w", err)
	}
	return query, nil
}

// RenderTable renders query results the way the CLI prints them: a scalar
// as "column: value", anything else as a pipe-separated table capped at 20
// rows.
func RenderTable(cols []string, rows [][]string) string {
	if len(rows) == 0 {
		return "No results."
	}
	if len(cols) == 1 && len(rows) == 1 {
		return fmt.Sprintf("%s: %s", cols[0], rows[0][0])
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, strings.Join(cols, " | "))
	for i, row := range rows {
		if i == 20 {
			lines = append(lines, fmt.Sprintf("... (%d more)", len(rows)-20))
			break
		}
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}
