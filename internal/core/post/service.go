// Copyright (c) 2026 Inkpress. All rights reserved.

package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/sec"
	"github.com/inkpress/inkpress/pkg/slug"
	"github.com/inkpress/inkpress/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for articles and their discovery surface.
type Service struct {
	repository           Repository
	viewStore            ViewStore
	newsletterRepository NewsletterRepository
	logger               *slog.Logger
}

// NewService constructs a new [Service] with its storage dependencies.
func NewService(repo Repository, viewStore ViewStore, newsletterRepo NewsletterRepository, logger *slog.Logger) *Service {
	return &Service{
		repository:           repo,
		viewStore:            viewStore,
		newsletterRepository: newsletterRepo,
		logger:               logger,
	}
}

// # Authoring

// CreateInput holds the data required to author a new post.
type CreateInput struct {
	Title      string
	Content    string
	Excerpt    string
	CoverURL   string
	CategoryID *string
	Tags       []string
	Status     string
}

/*
Create authors a new post for the given user.

Description: Derives a URL-safe slug from the title; a slug collision with an
existing post surfaces as Conflict via the unique constraint.

Parameters:
  - context: context.Context
  - authorID: string
  - input: CreateInput

Returns:
  - *Post: Created entity
  - error: Conflict (duplicate slug) or storage failures
*/
func (service *Service) Create(context context.Context, authorID string, input CreateInput) (*Post, error) {
	status := input.Status
	if status == "" {
		status = StatusDraft
	}

	post := &Post{
		ID:         uuidv7.Must(),
		Title:      input.Title,
		Slug:       slug.From(input.Title),
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		CoverURL:   input.CoverURL,
		AuthorID:   authorID,
		CategoryID: input.CategoryID,
		Tags:       normalizeTags(input.Tags),
		Status:     status,
	}

	if err := service.repository.Create(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", post.ID),
		slog.String("slug", post.Slug),
	)

	return post, nil
}

// UpdateInput defines the mutable subset of post fields. Nil pointers leave
// the corresponding field untouched.
type UpdateInput struct {
	Title      *string
	Content    *string
	Excerpt    *string
	CoverURL   *string
	CategoryID *string
	Tags       []string
	Status     *string
	IsFeatured *bool
}

/*
Update applies a partial set of changes to a post.

Description: Only the author or an admin may modify a post. A title change
recomputes the slug.

Parameters:
  - context: context.Context
  - actorID: string
  - actorRole: sec.UserRole
  - postID: string
  - input: UpdateInput

Returns:
  - *Post: Updated entity
  - error: Forbidden, NotFound, Conflict, or storage failures
*/
func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, postID string, input UpdateInput) (*Post, error) {
	post, err := service.repository.FindByID(context, postID)
	if err != nil {
		return nil, err
	}

	if err := authorize(post, actorID, actorRole); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
		post.Slug = slug.From(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Excerpt != nil {
		post.Excerpt = *input.Excerpt
	}
	if input.CoverURL != nil {
		post.CoverURL = *input.CoverURL
	}
	if input.CategoryID != nil {
		post.CategoryID = input.CategoryID
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(input.Tags)
	}
	if input.Status != nil {
		post.Status = *input.Status
	}
	if input.IsFeatured != nil {
		// Only admins may curate the featured shelf.
		if !actorRole.AtLeast(sec.RoleAdmin) {
			return nil, apperr.Forbidden("Only admins can feature posts")
		}
		post.IsFeatured = *input.IsFeatured
	}

	if err := service.repository.Update(context, post); err != nil {
		return nil, err
	}

	return post, nil
}

/*
Delete removes a post and, via schema cascades, its comments and likes.

Parameters:
  - context: context.Context
  - actorID: string
  - actorRole: sec.UserRole
  - postID: string

Returns:
  - error: Forbidden, NotFound, or storage failures
*/
func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, postID string) error {
	post, err := service.repository.FindByID(context, postID)
	if err != nil {
		return err
	}

	if err := authorize(post, actorID, actorRole); err != nil {
		return err
	}

	if err := service.repository.Delete(context, postID); err != nil {
		return err
	}

	service.logger.Info("post_deleted", slog.String("post_id", postID))
	return nil
}

// # Reading & Discovery

/*
List returns a filtered page of posts plus the total match count. An empty
status filter defaults to published so drafts stay private.
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	if filter.Status == "" {
		filter.Status = StatusPublished
	}
	return service.repository.List(context, filter, limit, offset)
}

/*
GetBySlug returns a single post and records the view.

Description: The view is counted in Redis and folded into the durable row by
the periodic drain. A counter failure never blocks the read path.
*/
func (service *Service) GetBySlug(context context.Context, postSlug string) (*Post, error) {
	post, err := service.repository.FindBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}

	if err := service.viewStore.IncrementView(context, post.ID); err != nil {
		service.logger.Warn("view_count_increment_failed",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()),
		)
	}

	return post, nil
}

// ToggleLike flips the caller's like on a post and returns the new state.
func (service *Service) ToggleLike(context context.Context, userID, postID string) (bool, int, error) {
	// The post must exist; a dangling like row helps nobody.
	if _, err := service.repository.FindByID(context, postID); err != nil {
		return false, 0, err
	}
	return service.repository.ToggleLike(context, postID, userID)
}

// Featured returns the editorially curated shelf.
func (service *Service) Featured(context context.Context) ([]*Post, error) {
	return service.repository.Featured(context, FeaturedCount)
}

/*
Popular returns the most viewed published posts, served from the Redis cache
when warm and recomputed from Postgres on a miss.
*/
func (service *Service) Popular(context context.Context) ([]*Post, error) {
	cached, err := service.viewStore.PopularFromCache(context)
	if err != nil {
		service.logger.Warn("popular_cache_read_failed", slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	posts, err := service.repository.Popular(context, PopularCount)
	if err != nil {
		return nil, err
	}

	if err := service.viewStore.CachePopular(context, posts); err != nil {
		service.logger.Warn("popular_cache_write_failed", slog.String("error", err.Error()))
	}

	return posts, nil
}

// Related returns published posts sharing tags with the given post.
func (service *Service) Related(context context.Context, postSlug string) ([]*Post, error) {
	post, err := service.repository.FindBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}
	return service.repository.Related(context, post.ID, post.Tags, RelatedCount)
}

// Search runs a full-text query over published posts.
func (service *Service) Search(context context.Context, query string, limit, offset int) ([]*Post, int, error) {
	return service.repository.List(context, Filter{Status: StatusPublished, Search: query}, limit, offset)
}

// Tags returns the distinct tag vocabulary across published posts.
func (service *Service) Tags(context context.Context) ([]string, error) {
	return service.repository.Tags(context)
}

/*
FlushViews drains the pending Redis view counters into the durable rows.

Description: Invoked on a ticker by the API process. Per-post failures are
logged and skipped so one bad row cannot stall the whole drain.
*/
func (service *Service) FlushViews(context context.Context) error {
	deltas, err := service.viewStore.DrainViews(context)
	if err != nil {
		return fmt.Errorf("post_service_drain_views_failed: %w", err)
	}

	for postID, delta := range deltas {
		if err := service.repository.AddViews(context, postID, delta); err != nil {
			service.logger.Error("view_count_flush_failed",
				slog.String("post_id", postID),
				slog.Int64("delta", delta),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// # Newsletter

// Subscribe records a newsletter subscription for a unique email.
func (service *Service) Subscribe(context context.Context, email string) error {
	return service.newsletterRepository.Subscribe(context, strings.ToLower(strings.TrimSpace(email)))
}

// # Helpers

// authorize permits the post's author or an admin, nobody else.
func authorize(post *Post, actorID string, actorRole sec.UserRole) error {
	if post.AuthorID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You do not have permission to modify this post")
	}
	return nil
}

// normalizeTags lowercases, trims, and deduplicates a tag list.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))

	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}

	return normalized
}
