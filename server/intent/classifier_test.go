package intent

import "testing"

func TestRuleClassifier(t *testing.T) {
	c := NewRuleClassifier()

	tests := []struct {
		question string
		want     Metric
	}{
		{"How many emails did we send last week?", MetricSent},
		{"total emails this month", MetricSent},
		{"How many were delivered yesterday?", MetricSent},
		{"How many emails were opened yesterday?", MetricOpened},
		{"what's our open rate", MetricOpened},
		{"Who replied to the launch campaign?", MetricReplied},
		{"how many people responded since March 1", MetricReplied},
		{"How many emails bounced last month?", MetricBounced},
		{"bounce breakdown by domain", MetricBounced},
		// Reply wins over open when both families appear.
		{"how many opened emails got a reply", MetricReplied},
		{"what's the weather like", MetricUnknown},
		{"", MetricUnknown},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.question); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestParseClassifyResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Metric
		wantErr bool
	}{
		{"plain json", `{"metric": "opened", "confidence": 0.9}`, MetricOpened, false},
		{"code fence", "```json\n{\"metric\": \"bounced\", \"confidence\": 0.8}\n```", MetricBounced, false},
		{"synonym", `{"metric": "replies", "confidence": 0.7}`, MetricReplied, false},
		{"unknown value", `{"metric": "clicked", "confidence": 0.5}`, MetricUnknown, false},
		{"garbage", "not json at all", MetricUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseClassifyResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Metric != tt.want {
				t.Errorf("metric = %v, want %v", result.Metric, tt.want)
			}
		})
	}
}
