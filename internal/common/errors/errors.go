// Package errors provides the error taxonomy shared by the HTTP API and the
// job workers, with conversion to HTTP statuses and BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors: reported to the caller immediately, never retried.
const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeMissingEmail      ErrorCode = "MISSING_EMAIL"
	ErrCodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	ErrCodeMissingPDF        ErrorCode = "MISSING_PDF"
	ErrCodeInvalidPDF        ErrorCode = "INVALID_PDF"
	ErrCodeInvalidAnswers    ErrorCode = "INVALID_ANSWERS"
	ErrCodeIncompleteAnswers ErrorCode = "INCOMPLETE_ANSWERS"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
)

// Processing and upstream errors.
const (
	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeEmailSendFailed    ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeLeadAlertFailed    ErrorCode = "LEAD_ALERT_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"

	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION_ERROR"
)

// StandardError represents a structured application error. Message is the
// single human readable sentence shown to the end user.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata attaches a key/value pair and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// As extracts a *StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Invalid request", details, nil)
}

func NewInvalidRequestError(err error) *StandardError {
	return newError(ErrCodeInvalidRequest, "Request body could not be parsed", err.Error(), err)
}

func NewMissingEmailError() *StandardError {
	return newError(ErrCodeMissingEmail, "Missing email field", "", nil)
}

func NewInvalidEmailError(email string) *StandardError {
	return newError(ErrCodeInvalidEmail, "Invalid email address", fmt.Sprintf("email: %s", email), nil)
}

func NewMissingPDFError() *StandardError {
	return newError(ErrCodeMissingPDF, "Missing PDF data", "", nil)
}

func NewInvalidPDFError(err error) *StandardError {
	return newError(ErrCodeInvalidPDF, "PDF data is not valid base64", err.Error(), err)
}

func NewInvalidAnswersError(err error) *StandardError {
	return newError(ErrCodeInvalidAnswers, "Quiz answers are not valid", err.Error(), err)
}

// NewIncompleteAnswersError lists the unanswered question ids in Metadata["missing"].
func NewIncompleteAnswersError(missing []string) *StandardError {
	return newError(ErrCodeIncompleteAnswers, "Please answer every question before submitting",
		fmt.Sprintf("missing: %s", strings.Join(missing, ",")), nil).
		WithMetadata("missing", missing)
}

func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests, please try again later",
		fmt.Sprintf("retryAfter: %s", retryAfter), nil).
		WithMetadata("retryAfterSeconds", int(retryAfter.Seconds()))
}

func NewReportRenderFailedError(err error) *StandardError {
	return newError(ErrCodeReportRenderFailed, "Failed to generate the action plan", err.Error(), err)
}

// NewEmailSendFailedError wraps a transport failure. The user retries manually.
func NewEmailSendFailedError(provider string, err error) *StandardError {
	return newError(ErrCodeEmailSendFailed, "Failed to send email",
		fmt.Sprintf("provider: %s, error: %s", provider, err.Error()), err)
}

func NewLeadAlertFailedError(err error) *StandardError {
	return newError(ErrCodeLeadAlertFailed, "Lead alert could not be published", err.Error(), err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), err)
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), err)
	e.Retryable = true
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), err)
	e.Retryable = true
	return e
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, nil)
}

// ==========================
// 4. Error Conversion
// ==========================

// HTTPStatus maps a code to the status returned by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest,
		ErrCodeMissingEmail, ErrCodeInvalidEmail,
		ErrCodeMissingPDF, ErrCodeInvalidPDF,
		ErrCodeInvalidAnswers, ErrCodeIncompleteAnswers:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeResourceNotFound:
		return http.StatusNotFound
	case ErrCodeAuthentication:
		return http.StatusUnauthorized
	case ErrCodeEmailSendFailed, ErrCodeExternalService:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount is zero for every code: failures are surfaced to the user,
// who retries manually.
func GetRetryCount(_ ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes equal the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: vars,
	}
}

// Normalize returns err as a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	switch HTTPStatus(code) {
	case http.StatusBadRequest, http.StatusTooManyRequests:
		return "VALIDATION"
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return "UPSTREAM"
	}
	switch code {
	case ErrCodeReportRenderFailed:
		return "RENDER"
	case ErrCodeLeadAlertFailed:
		return "NOTIFICATION"
	}
	return "OTHER"
}
