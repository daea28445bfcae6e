package service

import (
	"errors"
	"fmt"
)

var (
	// repository-facing errors
	ErrUserNotFound  = errors.New("user not found")
	ErrPanelNotFound = errors.New("panel not found or not owned by this user")

	// business-rule errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrPermissionDenied  = errors.New("permission denied: user is not an admin")
	ErrAccountExpired    = errors.New("account has expired")
	ErrDuplicateUsername = errors.New("panel with this username already exists")
	ErrNoUsers           = errors.New("no users found")
)

// InsufficientBalanceError reports a failed balance check on panel creation.
type InsufficientBalanceError struct {
	Required int64
	Current  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, current %d", e.Required, e.Current)
}

// ProvisioningError wraps a failure of the external provisioning API.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %s failed: %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
