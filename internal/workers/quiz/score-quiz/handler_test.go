// internal/workers/quiz/score-quiz/handler_test.go
package scorequiz

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

// answersAt picks the option at index pick(len(options)) for every question.
func answersAt(pick func(n int) int) quiz.AnswerSet {
	answers := quiz.AnswerSet{}
	for _, q := range quiz.Questions() {
		answers[q.ID] = q.Options[pick(len(q.Options))].Value
	}
	return answers
}

func lowestAnswers() quiz.AnswerSet  { return answersAt(func(int) int { return 0 }) }
func highestAnswers() quiz.AnswerSet { return answersAt(func(n int) int { return n - 1 }) }

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_CompleteAnswers(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Company: "  Acme  ", Answers: lowestAnswers()})
	require.NoError(t, err)

	assert.Equal(t, "Acme", out.Company)
	assert.True(t, out.Complete)
	assert.Equal(t, "quick-wins", out.RecommendationState)
	assert.Equal(t, out.QuizResult.DisplayScore(), out.TotalScore)
	assert.Equal(t, out.QuizResult.Persona.Name, out.PersonaName)
	assert.Len(t, out.QuizResult.Top3Weak, 3)
}

func TestHandler_Execute_HighestAnswers(t *testing.T) {
	out, err := createTestHandler(t).Execute(context.Background(), &Input{Answers: highestAnswers()})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, out.TotalScore, 85)
	assert.Equal(t, "Predictor", out.PersonaName)
	assert.Empty(t, out.Company)
}

func TestHandler_Execute_Incomplete(t *testing.T) {
	answers := lowestAnswers()
	delete(answers, quiz.Questions()[0].ID)
	delete(answers, quiz.Questions()[5].ID)

	_, err := createTestHandler(t).Execute(context.Background(), &Input{Answers: answers})
	require.Error(t, err)

	se, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIncompleteAnswers, se.Code)
	assert.Equal(t, []string{quiz.Questions()[0].ID, quiz.Questions()[5].ID}, se.Metadata["missing"])
}

func TestHandler_Execute_PartialAllowed(t *testing.T) {
	answers := lowestAnswers()
	delete(answers, quiz.Questions()[0].ID)

	out, err := createTestHandler(t).Execute(context.Background(), &Input{Answers: answers, Partial: true})
	require.NoError(t, err)
	assert.False(t, out.Complete)
	assert.Equal(t, quiz.QuestionCount()-1, out.QuizResult.Answered)
}

func TestHandler_Execute_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(quiz.AnswerSet)
	}{
		{"unknown question", func(a quiz.AnswerSet) { a["q99"] = 50 }},
		{"value not an option", func(a quiz.AnswerSet) { a[quiz.Questions()[0].ID] = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := lowestAnswers()
			tt.mutate(answers)
			_, err := createTestHandler(t).Execute(context.Background(), &Input{Answers: answers})
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidAnswers), "got %v", err)
		})
	}
}

// ==========================
// Schema Tests
// ==========================

func TestInputSchema(t *testing.T) {
	valid, err := json.Marshal(Input{Company: "Acme", Answers: lowestAnswers()})
	require.NoError(t, err)

	res, err := inputSchema.ValidateJSON(valid)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = inputSchema.ValidateJSON([]byte(`{"company": "Acme"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = inputSchema.ValidateJSON([]byte(`{"answers": {"q1": "high"}}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, errors.HasCode(schemaError(res, nil), errors.ErrCodeValidationFailed))
}

func TestOutputSchema(t *testing.T) {
	out, err := createTestHandler(t).Execute(context.Background(), &Input{Answers: lowestAnswers()})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	res, err := outputSchema.ValidateJSON(raw)
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())
}
