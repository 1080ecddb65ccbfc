package plan

import "time"

// Request asks for an action plan to be emailed. PDFData is the base64
// encoded document.
type Request struct {
	Email       string  `json:"email"`
	Company     string  `json:"company,omitempty"`
	TotalScore  float64 `json:"totalScore"`
	PersonaName string  `json:"personaName"`
	PDFData     string  `json:"pdfData"`
}

// Ack acknowledges an accepted delivery.
type Ack struct {
	MessageID string    `json:"messageId"`
	Provider  string    `json:"provider"`
	SentAt    time.Time `json:"sentAt"`
}

// Lead is published when a plan is requested.
type Lead struct {
	Email      string    `json:"email"`
	Company    string    `json:"company"`
	TotalScore int       `json:"totalScore"`
	Persona    string    `json:"persona"`
	Timestamp  time.Time `json:"timestamp"`
}
