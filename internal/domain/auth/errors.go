package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrDriverAccessRequired   = errors.New("driver access required")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInsufficientPermission = errors.New("insufficient permissions")
)
