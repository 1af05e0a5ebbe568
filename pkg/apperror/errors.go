package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// InvalidNumberError reports a field value that is not a valid
// non-negative decimal (or a percentage above 100). The prior value of
// the field is retained by the caller.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid value", e.Field, e.Value)
}

// NewInvalidNumberError creates an invalid number error for a field.
func NewInvalidNumberError(field, value string) *InvalidNumberError {
	return &InvalidNumberError{Field: field, Value: value}
}

// IsInvalidNumber checks if an error is an InvalidNumberError.
func IsInvalidNumber(err error) bool {
	var numErr *InvalidNumberError
	return errors.As(err, &numErr)
}

// LineNotFoundError reports an operation that referenced an invoice
// line that no longer exists.
type LineNotFoundError struct {
	Line int64
}

func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("invoice line %d not found", e.Line)
}

// IsLineNotFound checks if an error is a LineNotFoundError.
func IsLineNotFound(err error) bool {
	var lineErr *LineNotFoundError
	return errors.As(err, &lineErr)
}

// StockExceededError reports a requested quantity above the available
// stock. The billing engine clamps instead of returning this; the
// backend uses it to reject a bill at submission time.
type StockExceededError struct {
	Item      string
	Requested string
	Available string
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %s, available %s", e.Item, e.Requested, e.Available)
}

// IsStockExceeded checks if an error is a StockExceededError.
func IsStockExceeded(err error) bool {
	var stockErr *StockExceededError
	return errors.As(err, &stockErr)
}
