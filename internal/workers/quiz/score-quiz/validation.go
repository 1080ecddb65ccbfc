// internal/workers/quiz/score-quiz/validation.go
package scorequiz

import (
	"fmt"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/validation"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"company": {"type": "string", "maxLength": 200},
		"answers": {
			"type": "object",
			"description": "Question id to selected option value",
			"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
		},
		"partial": {"type": "boolean", "description": "Score an incomplete answer set"}
	}
}`)

var outputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["quizResult", "totalScore", "personaName", "recommendationState", "complete"],
	"properties": {
		"quizResult": {"type": "object"},
		"company": {"type": "string"},
		"totalScore": {"type": "integer", "minimum": 0, "maximum": 100},
		"personaName": {"type": "string", "enum": ["Responder", "Stabiliser", "Optimizer", "Predictor"]},
		"recommendationState": {"type": "string", "enum": ["quick-wins", "next-horizon", "maintain"]},
		"complete": {"type": "boolean"}
	}
}`)

func GetInputSchema() map[string]interface{} {
	return inputSchema.Document()
}

func GetOutputSchema() map[string]interface{} {
	return outputSchema.Document()
}

func schemaError(res *validation.ValidationResult, err error) error {
	if err != nil {
		return errors.NewInvalidRequestError(err)
	}
	return errors.NewValidationError(fmt.Sprintf("input: %s", res.Summary()))
}
