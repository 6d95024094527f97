package workspaces

import (
	"errors"
	"fmt"
)

var (
	errMissingStore      = errors.New("workspaces: key-value store is required")
	errMissingIDProvider = errors.New("workspaces: id provider is required")
	// ErrInvalidWorkspace indicates that required workspace fields are missing.
	ErrInvalidWorkspace = errors.New("workspaces: invalid workspace")
	// ErrInvalidMember indicates that a member is missing its composite key or has an unknown role.
	ErrInvalidMember = errors.New("workspaces: invalid member")
	// ErrInvalidInvitation indicates that required invitation fields are missing.
	ErrInvalidInvitation = errors.New("workspaces: invalid invitation")
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
