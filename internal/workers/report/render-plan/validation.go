// internal/workers/report/render-plan/validation.go
package renderplan

import (
	"fmt"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/validation"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["quizResult"],
	"properties": {
		"quizResult": {
			"type": "object",
			"required": ["totalScore", "persona", "categoryScores", "recommendation"],
			"properties": {
				"company": {"type": "string"},
				"totalScore": {"type": "number", "minimum": 0, "maximum": 100},
				"persona": {"type": "object", "required": ["name"]},
				"categoryScores": {"type": "object"},
				"recommendation": {"type": "object", "required": ["state", "headline"]}
			}
		},
		"planDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
	}
}`)

var outputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["pdfData", "fileName", "sizeBytes"],
	"properties": {
		"pdfData": {"type": "string", "description": "Base64 encoded PDF", "minLength": 1},
		"fileName": {"type": "string", "pattern": "\\.pdf$"},
		"sizeBytes": {"type": "integer", "minimum": 1}
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
