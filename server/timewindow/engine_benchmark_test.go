package timewindow

import (
	"testing"
)

func BenchmarkEngine_Resolve(b *testing.B) {
	engine := NewEngine()
	questions := []string{
		"How many emails were sent last week?",
		"Emails bounced in the last 7 days",
		"Between 2024-01-01 and 2024-01-31",
		"What is the total bounce rate?",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.ResolveAt(questions[i%len(questions)], fixedNow)
	}
}

func BenchmarkEngine_ResolveNoMatch(b *testing.B) {
	engine := NewEngine()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.ResolveAt("show me the campaign totals by domain", fixedNow)
	}
}
