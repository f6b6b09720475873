package models

import "errors"

// Domain errors shared by repositories and the API layer
var (
	// ErrNotFound is returned when a lookup by id or username has no match
	ErrNotFound = errors.New("record not found")

	// ErrPermissionDenied is returned when a caller lacks the permission an
	// operation requires, or edits content it does not own
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials covers wrong passwords and malformed or expired
	// tokens. The message is deliberately generic.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicate is returned when a unique constraint (username, email)
	// would be violated
	ErrDuplicate = errors.New("duplicate record")

	// ErrSelfFollow is returned when a user attempts to follow itself
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrNoDefaultRole is returned when a user is created before roles were
	// seeded
	ErrNoDefaultRole = errors.New("no default role exists")

	// ErrPasswordWriteOnly is returned on any attempt to read a plaintext
	// password back
	ErrPasswordWriteOnly = errors.New("password is not available for reading")

	// ErrPasswordEmpty is returned when setting an empty password
	ErrPasswordEmpty = errors.New("password is empty")
)
