// Package sentinel holds infrastructure-level sentinel errors. Stores return
// these (optionally wrapped) so services can translate them into domain
// errors without inspecting driver-specific failures.
package sentinel

import "errors"

var (
	// ErrNotFound: the entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness or atomicity guarantee rejected the write.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable: the backing store could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
