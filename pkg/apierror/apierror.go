package apierror

import "fmt"

// APIError is an error that already knows its HTTP shape. Handlers return it
// for request-level faults (bad JSON, missing fields) that have no sentinel
// in the model taxonomy; the response writer passes it through unchanged.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
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

// New builds an APIError. details names the offending field when there is
// one, otherwise pass "".
func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}
