package jwtx

import "errors"

var (
	// ErrMalformed reports an empty, unparsable, or signature-invalid token.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrExpired reports a structurally valid token whose exp is in the past.
	ErrExpired = errors.New("jwtx: expired token")

	// ErrUnsupported reports a token signed with an unrecognised algorithm or
	// an otherwise unsupported structure.
	ErrUnsupported = errors.New("jwtx: unsupported token")
)
