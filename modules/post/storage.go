package post

import "context"

// Storage defines persistence for posts. Implementations translate their
// backend's "no such document" into ErrPostNotFound and infrastructure
// failures into errors wrapping ErrStorageUnavailable.
type Storage interface {
	// CreatePost persists a new post and fills in its assigned id.
	CreatePost(ctx context.Context, p *Post) error

	// GetPost returns the post with the given id.
	GetPost(ctx context.Context, id string) (*Post, error)

	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]Post, error)

	// UpdatePost applies a partial update and returns the post as stored
	// after the mutation.
	UpdatePost(ctx context.Context, id string, upd Update) (*Post, error)

	// DeletePost removes the post with the given id.
	DeletePost(ctx context.Context, id string) error
}
