// Package errors holds the error kinds shared by every layer.
// Module-level sentinels in the service package wrap one of these so that
// callers can classify a failure with errors.Is regardless of the entity.
package errors

import "errors"

var (
	// ErrValidation the resulting record breaks a field or cross-field rule
	ErrValidation = errors.New("validation failed")
	// ErrNotFound the addressed record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey a natural key (email, lab code, course code) is already taken
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrDependencyExists delete blocked by referencing rows
	ErrDependencyExists = errors.New("dependent records exist")
	// ErrRoomConflict the requested lab room slot overlaps an existing booking
	ErrRoomConflict = errors.New("lab room is not available at the requested time")
	// ErrStore generic transport or storage failure
	ErrStore = errors.New("store error")
	// ErrOptimisticLock the record was modified by someone else
	ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")
)
