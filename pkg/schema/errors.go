package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeAPIKeyNotFound   = "API_KEY_NOT_FOUND"
	ErrCodeTransport        = "TRANSPORT_ERROR"
	ErrCodeRequestFailed    = "REQUEST_FAILED"
	ErrCodeDecode           = "DECODE_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeEvaluation       = "EVALUATION_ERROR"
	ErrCodeCancelled        = "CANCELLED"
)

// PapergraphError is the structured error type for all papergraph operations.
type PapergraphError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	PaperID string         `json:"paper_id,omitempty"`
	Cause   error          `json:"-"`
}

func (e *PapergraphError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("[%s] paper %s: %s", e.Code, e.PaperID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *PapergraphError) Unwrap() error {
	return e.Cause
}

// NewError creates a new PapergraphError.
func NewError(code, message string) *PapergraphError {
	return &PapergraphError{Code: code, Message: message}
}

// NewErrorf creates a new PapergraphError with a formatted message.
func NewErrorf(code, format string, args ...any) *PapergraphError {
	return &PapergraphError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithPaper attaches the paper ID the operation was acting on.
func (e *PapergraphError) WithPaper(paperID string) *PapergraphError {
	e.PaperID = paperID
	return e
}

// WithCause attaches an underlying cause.
func (e *PapergraphError) WithCause(err error) *PapergraphError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *PapergraphError) WithDetails(details map[string]any) *PapergraphError {
	e.Details = details
	return e
}
