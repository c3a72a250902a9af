package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes emitted by the pipeline.
const (
	CodeMalformedTrigger    = "MALFORMED_TRIGGER"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeMalformedTranscript = "MALFORMED_TRANSCRIPT"
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeDeliveryFailure     = "DELIVERY_FAILURE"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewMalformedTrigger reports an event whose shape is missing expected fields.
func NewMalformedTrigger(message string, details map[string]any) error {
	return NewDomainError(CodeMalformedTrigger, message, http.StatusBadRequest, details)
}

func NewUnsupportedFormat(ext string) error {
	return NewDomainError(CodeUnsupportedFormat, fmt.Sprintf("Unsupported file format: %s", ext), http.StatusBadRequest,
		map[string]any{"extension": ext})
}

// NewMalformedTranscript is fatal for the invocation; upstream must re-deliver the artifact.
func NewMalformedTranscript(message string, err error) error {
	return &DomainError{
		Code:       CodeMalformedTranscript,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewConfigurationError(message string) error {
	return NewDomainError(CodeConfiguration, message, http.StatusInternalServerError, nil)
}

// NewDeliveryFailure wraps the last network error after retries were exhausted.
func NewDeliveryFailure(attempts int, err error) error {
	return &DomainError{
		Code:       CodeDeliveryFailure,
		Message:    fmt.Sprintf("ticket delivery failed after %d attempts", attempts),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"attempts": attempts},
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
