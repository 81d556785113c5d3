package apierror

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FieldError points at a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type APIError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    string       `json:"details,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	HTTPStatus int          `json:"-"`

	// Err is the sentinel this error classifies as, if any.
	Err error `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Field returns the message attached to the named field, or "".
func (e *APIError) Field(name string) string {
	if e == nil {
		return ""
	}
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Wrap is New with a classifying sentinel attached.
func Wrap(cause error, code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status, Err: cause}
}

// Validation builds a 400 error carrying field-level messages.
func Validation(fields ...FieldError) *APIError {
	return &APIError{
		Code:       "VALIDATION_FAILED",
		Message:    "request validation failed",
		Errors:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

type envelope struct {
	Error *APIError `json:"error"`
}

// FromResponse decodes the error envelope of a non-2xx response. It reads
// the body but does not close it. Bodies that are not an error envelope
// produce a generic error named after the status.
func FromResponse(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed envelope
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil && parsed.Error.Code != "" {
		parsed.Error.HTTPStatus = resp.StatusCode
		return parsed.Error
	}

	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
	if code == "" {
		code = "HTTP_ERROR"
	}
	return New(code, fmt.Sprintf("unexpected status %d", resp.StatusCode), strings.TrimSpace(string(raw)), resp.StatusCode)
}
