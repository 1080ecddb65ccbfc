// internal/workers/communication/send-plan/models.go
package sendplan

import (
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/plan"
)

type Input struct {
	Email       string  `json:"email"`
	Company     string  `json:"company,omitempty"`
	TotalScore  float64 `json:"totalScore"`
	PersonaName string  `json:"personaName"`
	PDFData     string  `json:"pdfData"`
}

func (i *Input) toRequest() plan.Request {
	return plan.Request{
		Email:       i.Email,
		Company:     i.Company,
		TotalScore:  i.TotalScore,
		PersonaName: i.PersonaName,
		PDFData:     i.PDFData,
	}
}

type Output struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"messageId"`
	Provider  string    `json:"provider"`
	SentAt    time.Time `json:"sentAt"`
}
