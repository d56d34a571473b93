package domain

import "errors"

// Common domain errors
var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUserInactive       = errors.New("user account is inactive")
)

// User directory errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrPasswordWrong    = errors.New("current password is incorrect")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidHierarchy = errors.New("hierarchy placement is inconsistent")
)

// Business rule violations (400 at the transport layer)
var (
	ErrCannotDeactivateSelf = errors.New("cannot deactivate your own account")
	ErrCannotDeleteSelf     = errors.New("cannot delete your own account")
	ErrCannotDemoteSelf     = errors.New("cannot demote yourself")
	ErrAlreadyAdmin         = errors.New("user is already an admin")
	ErrNotAdmin             = errors.New("user is not an admin")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
)
