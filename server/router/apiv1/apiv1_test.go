package apiv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coralbricks/mailsight/internal/profile"
	"github.com/coralbricks/mailsight/server/answer"
	"github.com/coralbricks/mailsight/server/internal/observability"
	"github.com/coralbricks/mailsight/server/timewindow"
	"github.com/coralbricks/mailsight/store"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

type staticEventStore struct {
	count int64
}

func (s *staticEventStore) CountEmailEvents(context.Context, *store.FindEmailEvent) (int64, error) {
	return s.count, nil
}

func (s *staticEventStore) ListEmailEvents(context.Context, *store.FindEmailEvent) ([]*store.EmailEvent, error) {
	return nil, nil
}

func (s *staticEventStore) CountBouncesByDomain(context.Context, *store.FindEmailEvent) ([]*store.DomainCount, error) {
	return nil, nil
}

func (s *staticEventStore) QueryReadOnly(context.Context, string) ([]string, [][]string, error) {
	return nil, nil, nil
}

func newTestService() *APIV1Service {
	engine := timewindow.NewEngineWithClock(func() time.Time { return fixedNow })
	assembler := answer.NewAssembler(engine, &staticEventStore{count: 42})
	return NewAPIV1Service(&profile.Profile{Mode: "demo", Version: "test"}, nil, assembler)
}

func newTestServer() *echo.Echo {
	observability.GlobalMetrics().Reset()
	e := echo.New()
	newTestService().Register(e)
	return e
}

func TestAsk(t *testing.T) {
	e := newTestServer()

	body := `{"question": "How many emails did we send last week?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Total emails sent in the specified window: 42" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Metric != "sent" {
		t.Errorf("metric = %q", resp.Metric)
	}
	if resp.Start != "2024-03-04T00:00:00" || resp.End != "2024-03-10T23:59:59" {
		t.Errorf("window = %s..%s", resp.Start, resp.End)
	}
}

func TestAskValidation(t *testing.T) {
	e := newTestServer()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing question", `{}`, http.StatusBadRequest},
		{"malformed json", `{"question": `, http.StatusBadRequest},
		{"oversized question", `{"question": "` + strings.Repeat("x", 2000) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Errorf("response = %v", resp)
	}
}

func TestStats(t *testing.T) {
	e := newTestServer()

	body := `{"question": "total emails sent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(httptest.NewRecorder(), req)

	statsReq := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, statsReq)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap observability.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.RequestTotal != 1 {
		t.Errorf("request_total = %d, want 1", snap.RequestTotal)
	}
	if snap.ByMetric["sent"] == nil || snap.ByMetric["sent"].Count != 1 {
		t.Errorf("by_metric = %+v", snap.ByMetric)
	}
}

func TestSummaryWithoutStore(t *testing.T) {
	e := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
