// internal/workers/quiz/score-quiz/models.go
package scorequiz

import "github.com/rustybadge/after-sales-quiz/internal/quiz"

type Input struct {
	Company string         `json:"company"`
	Answers quiz.AnswerSet `json:"answers"`
	Partial bool           `json:"partial,omitempty"`
}

// Output sets the full snapshot under quizResult and flattens the fields that
// gateways and the send-plan task read.
type Output struct {
	QuizResult          quiz.Result `json:"quizResult"`
	Company             string      `json:"company"`
	TotalScore          int         `json:"totalScore"`
	PersonaName         string      `json:"personaName"`
	RecommendationState string      `json:"recommendationState"`
	Complete            bool        `json:"complete"`
}
