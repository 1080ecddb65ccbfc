// internal/workers/communication/send-plan/validation.go
package sendplan

import (
	"fmt"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/validation"
)

// inputSchema checks shape only. Presence and format of email and pdfData are
// left to the delivery service so that its error codes reach the process.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"email": {"type": "string", "maxLength": 255},
		"company": {"type": "string", "maxLength": 200},
		"totalScore": {"type": "number", "minimum": 0, "maximum": 100},
		"personaName": {"type": "string"},
		"pdfData": {"type": "string", "description": "Base64 encoded PDF"}
	}
}`)

var outputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["success", "messageId", "provider", "sentAt"],
	"properties": {
		"success": {"type": "boolean"},
		"message": {"type": "string"},
		"messageId": {"type": "string"},
		"provider": {"type": "string", "enum": ["ses", "smtp", "log"]},
		"sentAt": {"type": "string", "format": "date-time"}
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
