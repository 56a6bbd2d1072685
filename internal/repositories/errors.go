package repositories

import "github.com/vanshsoni916/VideoTweetApp/internal/content"

// Store implementations surface the content-layer kinds directly so
// callers can branch with errors.Is without translating between layers.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = content.ErrNotFound
	// ErrConflict indicates the attempted write would violate a
	// uniqueness constraint.
	ErrConflict = content.ErrConflict
)
