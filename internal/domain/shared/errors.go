package shared

import "errors"

// Error codes used across the domain
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeContention        = "CONTENTION"
	CodeConcurrency       = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewInsufficientStockError creates an insufficient-stock error
func NewInsufficientStockError(message string) *DomainError {
	return NewDomainError(CodeInsufficientStock, message)
}

// NewInvalidTransitionError creates an invalid-transition error
func NewInvalidTransitionError(message string) *DomainError {
	return NewDomainError(CodeInvalidTransition, message)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewContentionError creates a retryable lock-contention error
func NewContentionError(message string) *DomainError {
	return NewDomainError(CodeContention, message)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
)

// HasCode reports whether err is a DomainError carrying the given code
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsInsufficientStock reports whether err is an insufficient-stock error
func IsInsufficientStock(err error) bool { return HasCode(err, CodeInsufficientStock) }

// IsInvalidTransition reports whether err is an invalid-transition error
func IsInvalidTransition(err error) bool { return HasCode(err, CodeInvalidTransition) }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsContention reports whether err is a retryable contention error
func IsContention(err error) bool { return HasCode(err, CodeContention) }
