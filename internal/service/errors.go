package service

import "errors"

var (
	// ErrUnauthorizedToken reports a refresh token that failed validation:
	// undecodable, expired, absent from the server-side store, not matching
	// the stored value, or unverifiable because the store was unreachable
	// (validation fails closed).
	ErrUnauthorizedToken = errors.New("service: unauthorized token")

	// ErrBlacklistedToken reports an access token that was revoked before its
	// natural expiry.
	ErrBlacklistedToken = errors.New("service: blacklisted token")

	// ErrUserNotFound reports that the subject has no user record.
	ErrUserNotFound = errors.New("service: user not found")

	// ErrDuplicateUsername reports a signup conflict.
	ErrDuplicateUsername = errors.New("service: duplicate username")

	// ErrInvalidCredentials reports a failed password check at login.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrValidation reports a request that failed field validation.
	ErrValidation = errors.New("service: validation failed")

	// ErrAdminRequired reports an actor without the admin role attempting an
	// admin-only operation.
	ErrAdminRequired = errors.New("service: admin role required")
)
