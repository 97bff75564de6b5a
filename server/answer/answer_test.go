package answer

import (
	"context"
	"testing"
	"time"

	"github.com/coralbricks/mailsight/server/timewindow"
	"github.com/coralbricks/mailsight/store"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

// fakeEventStore records the filters it was queried with and serves canned
// data.
type fakeEventStore struct {
	events   []*store.EmailEvent
	domains  []*store.DomainCount
	lastFind *store.FindEmailEvent
}

func (f *fakeEventStore) CountEmailEvents(_ context.Context, find *store.FindEmailEvent) (int64, error) {
	f.lastFind = find
	var n int64
	for _, e := range f.events {
		if matches(e, find) {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventStore) ListEmailEvents(_ context.Context, find *store.FindEmailEvent) ([]*store.EmailEvent, error) {
	f.lastFind = find
	var out []*store.EmailEvent
	for _, e := range f.events {
		if matches(e, find) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) CountBouncesByDomain(_ context.Context, find *store.FindEmailEvent) ([]*store.DomainCount, error) {
	f.lastFind = find
	return f.domains, nil
}

func (f *fakeEventStore) QueryReadOnly(_ context.Context, _ string) ([]string, [][]string, error) {
	return nil, nil, nil
}

func matches(e *store.EmailEvent, find *store.FindEmailEvent) bool {
	if find.SentAfter != nil && e.SentAt.Before(*find.SentAfter) {
		return false
	}
	if find.SentBefore != nil && e.SentAt.After(*find.SentBefore) {
		return false
	}
	if find.Opened != nil && *find.Opened && e.OpenedAt == nil {
		return false
	}
	if find.Replied != nil && *find.Replied && e.RepliedAt == nil {
		return false
	}
	return true
}

func event(sentAt time.Time) *store.EmailEvent {
	return &store.EmailEvent{EmailAddress: "a@example.com", SentAt: sentAt}
}

func newTestAssembler(events *fakeEventStore) *Assembler {
	engine := timewindow.NewEngineWithClock(func() time.Time { return fixedNow })
	return NewAssembler(engine, events)
}

func TestAssembler_Sent(t *testing.T) {
	fake := &fakeEventStore{events: []*store.EmailEvent{
		event(fixedNow.AddDate(0, 0, -2)),
		event(fixedNow.AddDate(0, 0, -3)),
		event(fixedNow.AddDate(0, 0, -40)),
	}}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "How many emails did we send in the last 7 days?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Total emails sent in the specified window: 2" {
		t.Errorf("answer = %q", result.Answer)
	}
	if result.Metric != "sent" {
		t.Errorf("metric = %q", result.Metric)
	}
	if result.Start == nil || result.End == nil {
		t.Fatal("expected a resolved window")
	}
	if fake.lastFind.SentAfter == nil || !fake.lastFind.SentAfter.Equal(*result.Start) {
		t.Errorf("store filtered by %v, window start %v", fake.lastFind.SentAfter, result.Start)
	}
}

func TestAssembler_SentWithoutWindow(t *testing.T) {
	fake := &fakeEventStore{events: []*store.EmailEvent{
		event(fixedNow.AddDate(0, 0, -2)),
		event(fixedNow.AddDate(0, 0, -400)),
	}}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "How many emails were sent?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Total emails sent: 2" {
		t.Errorf("answer = %q", result.Answer)
	}
	if result.Start != nil || result.End != nil {
		t.Errorf("expected no window, got %v..%v", result.Start, result.End)
	}
}

func TestAssembler_Opened(t *testing.T) {
	opened := fixedNow.AddDate(0, 0, -1)
	withOpen := event(fixedNow.AddDate(0, 0, -2))
	withOpen.OpenedAt = &opened

	fake := &fakeEventStore{events: []*store.EmailEvent{
		withOpen,
		event(fixedNow.AddDate(0, 0, -2)),
	}}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "How many emails were opened this week?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Total emails opened in the specified window: 1" {
		t.Errorf("answer = %q", result.Answer)
	}
}

func TestAssembler_RepliedAverage(t *testing.T) {
	sent := fixedNow.AddDate(0, 0, -3)
	replyFast := sent.Add(2 * time.Hour)
	replySlow := sent.Add(6 * time.Hour)

	first := event(sent)
	first.RepliedAt = &replyFast
	second := event(sent)
	second.RepliedAt = &replySlow

	fake := &fakeEventStore{events: []*store.EmailEvent{first, second, event(sent)}}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "How many people replied this week?")
	if err != nil {
		t.Fatal(err)
	}
	want := "Total people who replied in the specified window: 2. Average reply time: 4.0 hours"
	if result.Answer != want {
		t.Errorf("answer = %q, want %q", result.Answer, want)
	}
}

func TestAssembler_RepliedNone(t *testing.T) {
	fake := &fakeEventStore{}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "Who replied yesterday?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Total people who replied in the specified window: 0" {
		t.Errorf("answer = %q", result.Answer)
	}
}

func TestAssembler_BouncedByDomain(t *testing.T) {
	fake := &fakeEventStore{domains: []*store.DomainCount{
		{Domain: "gmail.com", Count: 1200},
		{Domain: "yahoo.com", Count: 3},
	}}
	a := newTestAssembler(fake)

	result, err := a.Answer(context.Background(), "How many emails bounced last month?")
	if err != nil {
		t.Fatal(err)
	}
	want := "Total bounced emails in the specified window: 1,203. By domain: gmail.com: 1,200, yahoo.com: 3"
	if result.Answer != want {
		t.Errorf("answer = %q, want %q", result.Answer, want)
	}
	if fake.lastFind.Bounced == nil || !*fake.lastFind.Bounced {
		t.Error("expected bounced filter to be set")
	}
}

func TestAssembler_UnknownMetric(t *testing.T) {
	a := newTestAssembler(&fakeEventStore{})

	result, err := a.Answer(context.Background(), "What is the meaning of life?")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != guidanceMessage {
		t.Errorf("answer = %q", result.Answer)
	}
	if result.Metric != "" {
		t.Errorf("metric = %q, want empty", result.Metric)
	}
}

func TestAssembler_EmptyQuestion(t *testing.T) {
	a := newTestAssembler(&fakeEventStore{})

	result, err := a.Answer(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer != "Please provide a question." {
		t.Errorf("answer = %q", result.Answer)
	}
}

func TestComma(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := comma(tt.n); got != tt.want {
			t.Errorf("comma(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
