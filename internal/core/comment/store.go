// Copyright (c) 2026 Inkpress. All rights reserved.

package comment

import "context"

// Repository defines the data access contract for comments.
type Repository interface {
	// Create persists a new comment on an existing post.
	Create(context context.Context, comment *Comment) error

	// FindByID returns the comment with the given ID.
	FindByID(context context.Context, id string) (*Comment, error)

	// ListByPost returns all comments for a post, oldest first.
	ListByPost(context context.Context, postID string) ([]*Comment, error)

	// Update replaces the content of an existing comment.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment and its direct replies in one statement.
	Delete(context context.Context, id string) error
}
