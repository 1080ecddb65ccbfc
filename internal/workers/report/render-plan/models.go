// internal/workers/report/render-plan/models.go
package renderplan

import "github.com/rustybadge/after-sales-quiz/internal/quiz"

// Input reads the snapshot set by the score-quiz task.
type Input struct {
	QuizResult *quiz.Result `json:"quizResult"`
	// Date is printed on the plan, YYYY-MM-DD. Defaults to today.
	Date string `json:"planDate,omitempty"`
}

type Output struct {
	PDFData   string `json:"pdfData"`
	FileName  string `json:"fileName"`
	SizeBytes int    `json:"sizeBytes"`
}
