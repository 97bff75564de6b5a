// Package apiv1 exposes the question-answering pipeline over HTTP.
package apiv1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/coralbricks/mailsight/internal/profile"
	"github.com/coralbricks/mailsight/server/answer"
	apierrors "github.com/coralbricks/mailsight/server/internal/errors"
	"github.com/coralbricks/mailsight/server/internal/observability"
	"github.com/coralbricks/mailsight/server/middleware"
	"github.com/coralbricks/mailsight/server/stats"
	"github.com/coralbricks/mailsight/store"
)

// maxQuestionLength bounds request bodies; the engine truncates anyway, this
// just rejects obvious abuse early.
const maxQuestionLength = 1000

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Assembler *answer.Assembler

	metrics   *observability.Metrics
	limiter   *middleware.RateLimiter
	collector *stats.Collector
}

// NewAPIV1Service creates the API service over the assembler.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, assembler *answer.Assembler) *APIV1Service {
	s := &APIV1Service{
		Profile:   profile,
		Store:     st,
		Assembler: assembler,
		metrics:   observability.GlobalMetrics(),
		limiter:   middleware.NewRateLimiter(10, 20),
	}
	if st != nil {
		s.collector = stats.NewCollector(st)
	}
	return s
}

// Register mounts all routes on the given Echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.Use(echomw.CORS())

	e.GET("/healthz", s.health)

	group := e.Group("/api/v1", s.limiter.Middleware())
	group.POST("/ask", s.ask)
	group.GET("/stats", s.stats)
	group.GET("/summary", s.summary)
}

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse echoes the answer plus the window and metric the pipeline
// resolved.
type AskResponse struct {
	Answer string `json:"answer"`
	Metric string `json:"metric,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

func (s *APIV1Service) ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}
	if len(req.Question) > maxQuestionLength {
		return echo.NewHTTPError(http.StatusBadRequest, "question too long")
	}

	reqCtx := observability.NewRequestContextWithID(slog.Default(), requestID(c), "ask")
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	result, err := s.Assembler.Answer(ctx, req.Question)
	if err != nil {
		s.metrics.RecordFailure("")
		reqCtx.Error("question failed", err,
			slog.Int(observability.LogFieldQuestionLen, len(req.Question)),
			slog.String(observability.LogFieldErrorCode, string(apierrors.CodeOf(err, apierrors.ErrCodeInternal))))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to answer question")
	}

	s.metrics.RecordRequest(result.Metric, reqCtx.Duration())
	reqCtx.Info("question answered",
		slog.String(observability.LogFieldMetric, result.Metric),
		slog.Int(observability.LogFieldQuestionLen, len(req.Question)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	resp := AskResponse{
		Answer: result.Answer,
		Metric: result.Metric,
	}
	if result.Start != nil {
		resp.Start = result.Start.Format(store.TimeLayout)
	}
	if result.End != nil {
		resp.End = result.End.Format(store.TimeLayout)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
		"time":    time.Now().Format(store.TimeLayout),
	})
}

func (s *APIV1Service) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

func (s *APIV1Service) summary(c echo.Context) error {
	if s.collector == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
	}
	summary, err := s.collector.Get(c.Request().Context())
	if err != nil {
		slog.Error("failed to compute campaign summary", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute summary")
	}
	return c.JSON(http.StatusOK, summary)
}

func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.New().String()
}
