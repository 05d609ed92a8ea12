package errors

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func Validation(message string) *APIError {
	return New(http.StatusBadRequest, "validation_error", message)
}

func InvalidID(field string) *APIError {
	return New(http.StatusBadRequest, "invalid_id", fmt.Sprintf("%s is not a valid id", field))
}

func MissingParameter(name string) *APIError {
	return New(http.StatusBadRequest, "missing_parameter", fmt.Sprintf("%s is required", name))
}

func NotFound(entity string) *APIError {
	return New(http.StatusNotFound, "not_found", fmt.Sprintf("%s not found", entity))
}

// Store reports a failed document-store call. Conservative 400 default;
// the stats route maps store failures to 500 instead.
func Store(message string) *APIError {
	return New(http.StatusBadRequest, "store_error", message)
}
