package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"
	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/mail"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/plan"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockRenderer struct {
	RenderFunc func(ctx context.Context, r quiz.Result, opts report.RenderOptions) ([]byte, error)
	calls      int
}

func (m *MockRenderer) Render(ctx context.Context, r quiz.Result, opts report.RenderOptions) ([]byte, error) {
	m.calls++
	return m.RenderFunc(ctx, r, opts)
}

func (m *MockRenderer) FileName(company string) string {
	return report.DefaultBrand().AttachmentName(company)
}

type MockPlanner struct {
	DeliverFunc func(ctx context.Context, req plan.Request) (*plan.Ack, error)
	calls       int
}

func (m *MockPlanner) Deliver(ctx context.Context, req plan.Request) (*plan.Ack, error) {
	m.calls++
	return m.DeliverFunc(ctx, req)
}

// ==========================
// Helpers
// ==========================

func newTestRouter(t *testing.T, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if d.Logger == nil {
		d.Logger = logger.NewTestLogger(t)
	}
	if d.Renderer == nil {
		d.Renderer = report.NewRenderer(report.DefaultBrand(), d.Logger)
	}
	if d.Planner == nil {
		d.Planner = &MockPlanner{DeliverFunc: func(context.Context, plan.Request) (*plan.Ack, error) {
			t.Fatal("planner must not be called")
			return nil, nil
		}}
	}
	if d.Server.MaxBodyBytes == 0 {
		d.Server.MaxBodyBytes = 1 << 20
	}
	return NewRouter(d)
}

func lowestAnswers() quiz.AnswerSet {
	a := quiz.AnswerSet{}
	for _, q := range quiz.Questions() {
		a[q.ID] = q.Options[0].Value
	}
	return a
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body.Error
}

// ==========================
// Catalog
// ==========================

func TestQuestions(t *testing.T) {
	r := newTestRouter(t, Deps{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data catalogView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Data.Questions, 12)
	require.Len(t, body.Data.Categories, 6)
	assert.Equal(t, quiz.CategoryFirstTimeFix, body.Data.Categories[0].ID)
	assert.Equal(t, "First-Time-Fix", body.Data.Categories[0].Label)
	assert.InDelta(t, 0.25, body.Data.Categories[0].Weight, 1e-9)
	assert.Len(t, body.Data.Personas, 4)
}

// ==========================
// Results
// ==========================

func TestResults_Complete(t *testing.T) {
	r := newTestRouter(t, Deps{})

	resp := postJSON(t, r, "/api/v1/quiz/results", submission{Company: " Acme ", Answers: lowestAnswers()})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Data quiz.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body.Data.Company)
	assert.True(t, body.Data.Complete)
	assert.Equal(t, quiz.PersonaResponder.Name, body.Data.Persona.Name)
	assert.Equal(t, quiz.StateQuickWins, body.Data.RecommendationState)
	assert.Len(t, body.Data.Top3Weak, 3)
	assert.NotEmpty(t, body.Data.Recommendation.Groups)
}

func TestResults_CountedOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := observability.New(observability.Options{ServiceName: "quiz-test", Registerer: reg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })
	r := newTestRouter(t, Deps{Observability: obs})

	resp := postJSON(t, r, "/api/v1/quiz/results", submission{Answers: lowestAnswers()})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	scraped := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(scraped, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scraped.Code)

	var samples []string
	for _, line := range strings.Split(scraped.Body.String(), "\n") {
		if strings.HasPrefix(line, "quiz_evaluations_total{") {
			samples = append(samples, line)
		}
	}
	require.Len(t, samples, 1)
	assert.Contains(t, samples[0], `persona="Responder"`)
	assert.True(t, strings.HasSuffix(samples[0], " 1"), samples[0])

	served := httptest.NewRecorder()
	r.ServeHTTP(served, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NotContains(t, served.Body.String(), "quiz_results_total")
}

func TestResults_Incomplete(t *testing.T) {
	r := newTestRouter(t, Deps{})
	answers := lowestAnswers()
	delete(answers, "q3")
	delete(answers, "q12")

	resp := postJSON(t, r, "/api/v1/quiz/results", submission{Answers: answers})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body := decodeError(t, resp)
	assert.Equal(t, string(errors.ErrCodeIncompleteAnswers), body.Code)
	details, ok := body.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"q3", "q12"}, details["missing"])
}

func TestResults_Partial(t *testing.T) {
	r := newTestRouter(t, Deps{})

	resp := postJSON(t, r, "/api/v1/quiz/results?partial=true", submission{Answers: quiz.AnswerSet{"q1": 50}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Data quiz.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Data.Complete)
	assert.Equal(t, 1, body.Data.Answered)
}

func TestResults_Rejections(t *testing.T) {
	r := newTestRouter(t, Deps{})

	tests := []struct {
		name string
		body interface{}
		code errors.ErrorCode
	}{
		{
			name: "unknown question",
			body: submission{Answers: quiz.AnswerSet{"q99": 0}},
			code: errors.ErrCodeInvalidAnswers,
		},
		{
			name: "value outside options",
			body: submission{Answers: quiz.AnswerSet{"q1": 0}},
			code: errors.ErrCodeInvalidAnswers,
		},
		{
			name: "answers missing",
			body: `{"company":"Acme"}`,
			code: errors.ErrCodeValidationFailed,
		},
		{
			name: "non numeric answer",
			body: `{"answers":{"q1":"high"}}`,
			code: errors.ErrCodeValidationFailed,
		},
		{
			name: "malformed json",
			body: `{"answers":`,
			code: errors.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, r, "/api/v1/quiz/results", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, string(tt.code), decodeError(t, resp).Code)
		})
	}
}

func TestResults_BodyTooLarge(t *testing.T) {
	r := newTestRouter(t, Deps{Server: config.ServerConfig{MaxBodyBytes: 32}})

	resp := postJSON(t, r, "/api/v1/quiz/results", submission{Company: strings.Repeat("x", 64), Answers: lowestAnswers()})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidRequest), decodeError(t, resp).Code)
}

// ==========================
// Report
// ==========================

func TestReport_RealRenderer(t *testing.T) {
	r := newTestRouter(t, Deps{})

	resp := postJSON(t, r, "/api/v1/quiz/report", submission{Company: "Acme Service AB", Answers: lowestAnswers()})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="humblebee-action-plan-acme-service-ab.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")))
}

func TestReport_RenderFailure(t *testing.T) {
	renderer := &MockRenderer{RenderFunc: func(context.Context, quiz.Result, report.RenderOptions) ([]byte, error) {
		return nil, errors.NewReportRenderFailedError(stderrors.New("font missing"))
	}}
	r := newTestRouter(t, Deps{Renderer: renderer})

	resp := postJSON(t, r, "/api/v1/quiz/report", submission{Answers: lowestAnswers()})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, string(errors.ErrCodeReportRenderFailed), decodeError(t, resp).Code)
	assert.Equal(t, 1, renderer.calls)
}

func TestReport_InvalidAnswersSkipsRender(t *testing.T) {
	renderer := &MockRenderer{RenderFunc: func(context.Context, quiz.Result, report.RenderOptions) ([]byte, error) {
		return []byte("%PDF-1.3"), nil
	}}
	r := newTestRouter(t, Deps{Renderer: renderer})

	resp := postJSON(t, r, "/api/v1/quiz/report", submission{Answers: quiz.AnswerSet{"q1": 7}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, renderer.calls)
}

// ==========================
// Send plan
// ==========================

func TestSendPlan_Success(t *testing.T) {
	sentAt := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	planner := &MockPlanner{DeliverFunc: func(_ context.Context, req plan.Request) (*plan.Ack, error) {
		assert.Equal(t, "ops@acme.example", req.Email)
		assert.InDelta(t, 78.6, req.TotalScore, 1e-9)
		return &plan.Ack{MessageID: "msg-1", Provider: "log", SentAt: sentAt}, nil
	}}
	r := newTestRouter(t, Deps{Planner: planner})

	resp := postJSON(t, r, "/api/v1/send-plan", plan.Request{
		Email:       "ops@acme.example",
		Company:     "Acme",
		TotalScore:  78.6,
		PersonaName: "Optimizer",
		PDFData:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.3")),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Message string   `json:"message"`
		Data    plan.Ack `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Email sent successfully", body.Message)
	assert.Equal(t, "msg-1", body.Data.MessageID)
	assert.True(t, sentAt.Equal(body.Data.SentAt))
}

func TestSendPlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       errors.ErrorCode
		retryAfter string
	}{
		{
			name:   "missing email",
			err:    errors.NewMissingEmailError(),
			status: http.StatusBadRequest,
			code:   errors.ErrCodeMissingEmail,
		},
		{
			name:       "throttled",
			err:        errors.NewRateLimitedError(30 * time.Minute),
			status:     http.StatusTooManyRequests,
			code:       errors.ErrCodeRateLimited,
			retryAfter: "1800",
		},
		{
			name:   "transport failure",
			err:    errors.NewEmailSendFailedError("smtp", stderrors.New("connection refused")),
			status: http.StatusBadGateway,
			code:   errors.ErrCodeEmailSendFailed,
		},
		{
			name:   "unexpected",
			err:    stderrors.New("boom"),
			status: http.StatusInternalServerError,
			code:   errors.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := &MockPlanner{DeliverFunc: func(context.Context, plan.Request) (*plan.Ack, error) {
				return nil, tt.err
			}}
			r := newTestRouter(t, Deps{Planner: planner})

			resp := postJSON(t, r, "/api/v1/send-plan", plan.Request{Email: "ops@acme.example"})
			assert.Equal(t, tt.status, resp.Code)
			body := decodeError(t, resp)
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.retryAfter, resp.Header().Get("Retry-After"))
		})
	}
}

func TestSendPlan_RejectsWrongTypes(t *testing.T) {
	planner := &MockPlanner{DeliverFunc: func(context.Context, plan.Request) (*plan.Ack, error) {
		return &plan.Ack{}, nil
	}}
	r := newTestRouter(t, Deps{Planner: planner})

	resp := postJSON(t, r, "/api/v1/send-plan", `{"email":"ops@acme.example","totalScore":"high"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(errors.ErrCodeValidationFailed), decodeError(t, resp).Code)
	assert.Equal(t, 0, planner.calls)
}

func TestSendPlan_WithService(t *testing.T) {
	log := logger.NewTestLogger(t)
	svc := plan.NewService(plan.Options{
		Mailer:    mail.NewLogMailer(log),
		FromName:  "After-Sales Quiz",
		FromEmail: "plans@humblebee.example",
		Logger:    log,
	})
	r := newTestRouter(t, Deps{Logger: log, Planner: svc})

	ok := postJSON(t, r, "/api/v1/send-plan", plan.Request{
		Email:       "Ops@Acme.example",
		TotalScore:  42,
		PersonaName: "Stabiliser",
		PDFData:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.3")),
	})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	bad := postJSON(t, r, "/api/v1/send-plan", plan.Request{Email: "not-an-address", PDFData: "JVBERi0="})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidEmail), decodeError(t, bad).Code)
}

// ==========================
// Health
// ==========================

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t, Deps{Ready: func(context.Context) error { return stderrors.New("redis down") }})

	health := httptest.NewRecorder()
	r.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"healthy"`)

	ready := httptest.NewRecorder()
	r.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Contains(t, ready.Body.String(), "redis down")

	metricsResp := httptest.NewRecorder()
	r.ServeHTTP(metricsResp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), "http_requests_total")
}
