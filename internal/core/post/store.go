// Copyright (c) 2026 Inkpress. All rights reserved.

package post

import "context"

// Repository defines the durable data access contract for posts.
type Repository interface {
	// Create persists a new post. Duplicate slugs surface as Conflict.
	Create(context context.Context, post *Post) error

	// FindByID returns the post with the given ID.
	FindByID(context context.Context, id string) (*Post, error)

	// FindBySlug returns the post with the given slug.
	FindBySlug(context context.Context, slug string) (*Post, error)

	// List returns a filtered page of posts plus the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error)

	// Update persists changes to a post's mutable fields.
	Update(context context.Context, post *Post) error

	// Delete removes a post; comments cascade at the schema level.
	Delete(context context.Context, id string) error

	// ToggleLike flips the user's like on a post and returns the new state
	// and the resulting like count.
	ToggleLike(context context.Context, postID, userID string) (liked bool, count int, err error)

	// Featured returns up to n editorially flagged published posts.
	Featured(context context.Context, n int) ([]*Post, error)

	// Popular returns up to n published posts ordered by views then likes.
	Popular(context context.Context, n int) ([]*Post, error)

	// Related returns up to n published posts sharing tags with the given
	// post, excluding the post itself.
	Related(context context.Context, postID string, tags []string, n int) ([]*Post, error)

	// Tags returns the distinct tag vocabulary across published posts.
	Tags(context context.Context) ([]string, error)

	// AddViews folds a view-counter delta into the post row.
	AddViews(context context.Context, postID string, delta int64) error
}

// ViewStore defines the volatile counter contract backed by Redis.
type ViewStore interface {
	// IncrementView bumps the pending view counter for a post.
	IncrementView(context context.Context, postID string) error

	// DrainViews atomically reads and resets all pending counters, returning
	// postID -> accumulated delta.
	DrainViews(context context.Context) (map[string]int64, error)

	// CachePopular stores the popular selection for a short TTL.
	CachePopular(context context.Context, posts []*Post) error

	// PopularFromCache returns the cached selection, or nil on a miss.
	PopularFromCache(context context.Context) ([]*Post, error)
}

// NewsletterRepository stores newsletter subscriptions.
type NewsletterRepository interface {
	// Subscribe records a unique subscriber email. Duplicates surface as Conflict.
	Subscribe(context context.Context, email string) error
}
