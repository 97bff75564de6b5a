package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("client-a") {
		t.Fatal("first request should be allowed")
	}
	if !rl.Allow("client-a") {
		t.Fatal("second request should be within burst")
	}
	if rl.Allow("client-a") {
		t.Fatal("third request should exceed burst")
	}
	// Separate clients get separate buckets.
	if !rl.Allow("client-b") {
		t.Fatal("other client should be unaffected")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", code)
	}
}
