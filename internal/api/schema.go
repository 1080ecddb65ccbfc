package api

import (
	"fmt"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/validation"
)

var submissionSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"company": {"type": "string", "maxLength": 200},
		"answers": {
			"type": "object",
			"additionalProperties": {"type": "integer"}
		}
	}
}`)

var planRequestSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"email": {"type": "string"},
		"company": {"type": "string", "maxLength": 200},
		"totalScore": {"type": "number", "minimum": 0, "maximum": 100},
		"personaName": {"type": "string"},
		"pdfData": {"type": "string"}
	}
}`)

// checkSchema validates raw against s and returns a taxonomy error.
func checkSchema(s *validation.Schema, raw []byte) error {
	res, err := s.ValidateJSON(raw)
	if err != nil {
		return errors.NewInvalidRequestError(err)
	}
	if !res.Valid {
		return errors.NewValidationError(fmt.Sprintf("body: %s", res.Summary()))
	}
	return nil
}
