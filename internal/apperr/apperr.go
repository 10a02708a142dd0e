// Package apperr defines the error taxonomy shared by the service and
// handler layers. Services wrap these sentinels with context via
// fmt.Errorf("...: %w", ...); handlers translate them to HTTP status
// codes with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means a referenced user, photo or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the actor does not own the resource being
	// read or mutated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict means the operation duplicates existing state, such as
	// liking the same user twice or setting the main photo as main.
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation means the operation is rejected in the current
	// state, such as deleting the main photo.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrExternalFailure means a remote collaborator (the asset store)
	// failed and the operation was aborted.
	ErrExternalFailure = errors.New("external failure")
)
