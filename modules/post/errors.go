package post

import "errors"

var (
	// ErrPostNotFound is returned when no post matches the given id. Malformed
	// ids map here too: to the client an unparseable id is just an id that does
	// not name a post.
	ErrPostNotFound = errors.New("post not found")

	// ErrEmptyUpdate is returned when an update names no fields to change.
	ErrEmptyUpdate = errors.New("update contains no fields")

	// ErrStorageUnavailable wraps infrastructure failures of the post store.
	ErrStorageUnavailable = errors.New("post storage unavailable")
)
