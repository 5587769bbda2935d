package storage

import "errors"

var (
	// ErrDuplicate is returned when a unique constraint rejects a write,
	// e.g. registering an already-taken username or email.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned on login with an unknown email or
	// a wrong password. Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrQueryNotAllowed is returned by the read-only query console for
	// anything that is not a single SELECT statement.
	ErrQueryNotAllowed = errors.New("query not allowed")
)
