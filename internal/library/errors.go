package library

import (
	"errors"
	"fmt"
)

var (
	errMissingStore      = errors.New("library: key-value store is required")
	errMissingIDProvider = errors.New("library: id provider is required")
	errMissingRoles      = errors.New("library: role resolver is required for workspace scope")
	// ErrPermissionDenied indicates that the caller's workspace role does not allow the operation.
	ErrPermissionDenied = errors.New("library: permission denied")
	// ErrInvalidBook indicates that required book fields are missing.
	ErrInvalidBook = errors.New("library: invalid book")
	// ErrInvalidCheckout indicates a checkout without a borrower or due date.
	ErrInvalidCheckout = errors.New("library: borrower and due date are required")
)

// ServiceError carries a stable "<operation>.<reason>" code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}
