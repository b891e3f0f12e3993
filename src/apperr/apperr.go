package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the failure type every service operation returns. The
// status field drives the HTTP translation in the controllers; the code
// lets clients branch without parsing messages.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInvalidOperation = "INVALID_OPERATION"
)

func NotFound(message string) *APIError {
	return &APIError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func Forbidden(message string) *APIError {
	return &APIError{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func Conflict(message string) *APIError {
	return &APIError{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

func InvalidOperation(message string) *APIError {
	return &APIError{Code: CodeInvalidOperation, Message: message, Status: http.StatusBadRequest}
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
