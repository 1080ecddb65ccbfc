package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema together with its source document.
type Schema struct {
	source   map[string]interface{}
	compiled *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Compile parses a JSON schema document.
func Compile(doc string) (*Schema, error) {
	var source map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &source); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{source: source, compiled: compiled}, nil
}

// MustCompile is Compile for package-level schema literals.
func MustCompile(doc string) *Schema {
	s, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the schema as a generic map, e.g. for the activity registry.
func (s *Schema) Document() map[string]interface{} {
	return s.source
}

// ValidateJSON validates a raw JSON document.
func (s *Schema) ValidateJSON(raw []byte) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewBytesLoader(raw))
}

// ValidateValue validates an already decoded value or struct.
func (s *Schema) ValidateValue(v interface{}) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewGoLoader(v))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := s.compiled.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Summary joins every message into one line.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims and lowercases an address for use as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
