package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP code and message.
// Two AppErrors with the same Kind satisfy errors.Is.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindMissingCustomerInfo Kind = "missing_customer_info"
	KindMemberNotFound      Kind = "member_not_found"
	KindServiceNotFound     Kind = "service_not_found"
	KindEmployeeNotFound    Kind = "employee_not_found"
	KindBranchNotFound      Kind = "branch_not_found"
	KindNotFound            Kind = "not_found"
	KindNotDraft            Kind = "not_draft"
	KindNotCompleted        Kind = "not_completed"
	KindConflict            Kind = "conflict"
	KindStorage             Kind = "storage_error"
	KindAccrual             Kind = "accrual_error"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindBadRequest          Kind = "bad_request"
	KindInternal            Kind = "internal_error"
	KindPrinter             Kind = "printer_error"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError of the same Kind, so callers can compare against the
// package-level sentinels regardless of the message carried.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Kind == "" {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound            = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrTransactionNotFound = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Transaction not found"}
	ErrMemberNotFound      = &AppError{Code: http.StatusNotFound, Kind: KindMemberNotFound, Message: "Member not found"}
	ErrServiceNotFound     = &AppError{Code: http.StatusNotFound, Kind: KindServiceNotFound, Message: "Service not found"}
	ErrEmployeeNotFound    = &AppError{Code: http.StatusNotFound, Kind: KindEmployeeNotFound, Message: "Employee not found"}
	ErrBranchNotFound      = &AppError{Code: http.StatusNotFound, Kind: KindBranchNotFound, Message: "Branch not found"}
	ErrMissingCustomerInfo = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingCustomerInfo, Message: "Customer name and phone are required when no member is given"}
	ErrValidation          = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrNotDraft            = &AppError{Code: http.StatusConflict, Kind: KindNotDraft, Message: "Transaction is not a draft"}
	ErrNotCompleted        = &AppError{Code: http.StatusConflict, Kind: KindNotCompleted, Message: "Transaction is not completed"}
	ErrConflict            = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrStorage             = &AppError{Code: http.StatusInternalServerError, Kind: KindStorage, Message: "Storage failure"}
	ErrAccrual             = &AppError{Code: http.StatusInternalServerError, Kind: KindAccrual, Message: "Commission accrual failed"}
	ErrUnauthorized        = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden           = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest          = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrPrinter             = &AppError{Code: http.StatusBadGateway, Kind: KindPrinter, Message: "Receipt printer unavailable"}
	ErrInternalServer      = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewStorageError wraps a database failure. The underlying error is kept for
// logging but not rendered to clients.
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStorage,
		Message: fmt.Sprintf("failed to %s", op),
		cause:   err,
	}
}

// NewAccrualError reports a single line item whose commission could not be applied.
func NewAccrualError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindAccrual,
		Message: message,
		cause:   err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *AppError, err error) *AppError {
	cp := *base
	cp.cause = err
	return &cp
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
		Kind:    KindInternal,
		Message: "Internal server error",
		cause:   err,
	}
}
