package content

import "errors"

var (
	// ErrValidation indicates malformed or missing input, including
	// self-subscription and oversized tweet content.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden indicates the actor does not own the resource.
	ErrForbidden = errors.New("not allowed")
	// ErrConflict indicates a uniqueness violation the toggle engine did
	// not absorb.
	ErrConflict = errors.New("conflict")
	// ErrUpstream indicates a media-store failure during publish, update,
	// or delete.
	ErrUpstream = errors.New("upstream failure")
)
