// internal/workers/report/render-plan/handler_test.go
package renderplan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Renderer
// ==========================

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, r quiz.Result, opts report.RenderOptions) ([]byte, error) {
	args := m.Called(ctx, r, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) FileName(company string) string {
	return report.DefaultBrand().AttachmentName(company)
}

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second, MaxBytes: 1 << 20}
}

func createTestResult() *quiz.Result {
	averages := quiz.CategoryAverages{}
	for _, c := range quiz.Categories() {
		averages[c] = 50
	}
	r := quiz.Result{
		Company:        "Acme Service",
		TotalScore:     50,
		Persona:        quiz.Classify(50),
		CategoryScores: averages,
		Top3Weak:       quiz.TopWeak(averages, quiz.DefaultWeakCount),
		Recommendation: quiz.Recommend(averages),
		Answered:       quiz.QuestionCount(),
		Complete:       true,
	}
	r.RecommendationState = r.Recommendation.State
	return &r
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_WithRealRenderer(t *testing.T) {
	h := NewHandler(createTestConfig(), report.NewRenderer(report.DefaultBrand(), logger.NewNoOpLogger()), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{QuizResult: createTestResult(), Date: "2024-03-14"})
	require.NoError(t, err)

	assert.Equal(t, "humblebee-action-plan-acme-service.pdf", out.FileName)
	data, err := base64.StdEncoding.DecodeString(out.PDFData)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, len(data), out.SizeBytes)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	res, err := outputSchema.ValidateJSON(raw)
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())
}

func TestHandler_Execute_PassesDate(t *testing.T) {
	r := &MockRenderer{}
	want := report.RenderOptions{Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)}
	r.On("Render", mock.Anything, mock.Anything, want).Return([]byte("%PDF-1.3"), nil)

	h := NewHandler(createTestConfig(), r, nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{QuizResult: createTestResult(), Date: "2024-03-14"})
	require.NoError(t, err)
	assert.Equal(t, 8, out.SizeBytes)
	r.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		render   func(*MockRenderer)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "missing result",
			input:    &Input{},
			wantCode: apperrors.ErrCodeValidationFailed,
		},
		{
			name:     "bad date",
			input:    &Input{QuizResult: createTestResult(), Date: "14/03/2024"},
			wantCode: apperrors.ErrCodeValidationFailed,
		},
		{
			name:  "render failure",
			input: &Input{QuizResult: createTestResult()},
			render: func(m *MockRenderer) {
				m.On("Render", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, apperrors.NewReportRenderFailedError(errors.New("font missing")))
			},
			wantCode: apperrors.ErrCodeReportRenderFailed,
		},
		{
			name:  "too large",
			input: &Input{QuizResult: createTestResult()},
			render: func(m *MockRenderer) {
				m.On("Render", mock.Anything, mock.Anything, mock.Anything).
					Return(make([]byte, 2<<20), nil)
			},
			wantCode: apperrors.ErrCodeReportRenderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &MockRenderer{}
			if tt.render != nil {
				tt.render(r)
			}
			h := NewHandler(createTestConfig(), r, nil, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, out)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestInputSchema(t *testing.T) {
	raw, err := json.Marshal(Input{QuizResult: createTestResult()})
	require.NoError(t, err)

	res, err := inputSchema.ValidateJSON(raw)
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())

	res, err = inputSchema.ValidateJSON([]byte(`{"planDate": "2024-03-14"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
}
