package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/coralbricks/mailsight/server/ai"
)

// Formatter rewrites raw results as conversational prose. Every method
// degrades to its raw input on error; formatting never fails an answer.
type Formatter struct {
	provider *ai.Provider
}

// NewFormatter creates a formatter on top of the provider.
func NewFormatter(provider *ai.Provider) *Formatter {
	return &Formatter{provider: provider}
}

const formatterSystemPrompt = "You are a helpful email campaign analyst who explains data in natural, conversational language."

// Format turns a raw result into a conversational response.
func (f *Formatter) Format(ctx context.Context, question, raw, metric string) string {
	var info strings.Builder
	if metric != "" {
		fmt.Fprintf(&info, "Metric: %s\n", metric)
	}

	prompt := fmt.Sprintf(`Convert the raw result into a natural, conversational response that directly answers the user's question.

User Question: %q

Context:
%s
Raw Result: %s

The response should directly answer the question, include the relevant numbers, and stay concise.

Response:`, question, info.String(), raw)

	text, err := f.provider.Chat(ctx, []ai.Message{
		{Role: openai.ChatMessageRoleSystem, Content: formatterSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		slog.Warn("response formatting failed, returning raw result", "error", err)
		return raw
	}
	return strings.TrimSpace(text)
}

// FormatError renders a technical error as a friendly explanation.
func (f *Formatter) FormatError(ctx context.Context, question, errMessage string) string {
	prompt := fmt.Sprintf(`The user asked: %q
But there was an error: %s

Provide a friendly, natural explanation of what went wrong and suggest what the user can try instead.

Response:`, question, errMessage)

	text, err := f.provider.Chat(ctx, []ai.Message{
		{Role: openai.ChatMessageRoleSystem, Content: formatterSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		slog.Warn("error formatting failed, returning raw message", "error", err)
		return fmt.Sprintf("I encountered an issue: %s", errMessage)
	}
	return strings.TrimSpace(text)
}
