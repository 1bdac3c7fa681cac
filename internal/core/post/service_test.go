// Copyright (c) 2026 Inkpress. All rights reserved.

package post

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/sec"
)

// # Test Doubles

// memoryRepository is an in-memory Repository for service tests.
type memoryRepository struct {
	posts map[string]*Post
	likes map[string]map[string]struct{}
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		posts: map[string]*Post{},
		likes: map[string]map[string]struct{}{},
	}
}

func (repo *memoryRepository) Create(_ context.Context, post *Post) error {
	for _, existing := range repo.posts {
		if existing.Slug == post.Slug {
			return apperr.Conflict("Post already exists")
		}
	}
	repo.posts[post.ID] = post
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*Post, error) {
	if post, ok := repo.posts[id]; ok {
		return post, nil
	}
	return nil, apperr.NotFound("Post")
}

func (repo *memoryRepository) FindBySlug(_ context.Context, postSlug string) (*Post, error) {
	for _, post := range repo.posts {
		if post.Slug == postSlug {
			return post, nil
		}
	}
	return nil, apperr.NotFound("Post")
}

func (repo *memoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	matched := make([]*Post, 0, len(repo.posts))
	for _, post := range repo.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && post.AuthorID != filter.AuthorID {
			continue
		}
		matched = append(matched, post)
	}
	return matched, len(matched), nil
}

func (repo *memoryRepository) Update(_ context.Context, post *Post) error {
	repo.posts[post.ID] = post
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(repo.posts, id)
	return nil
}

func (repo *memoryRepository) ToggleLike(_ context.Context, postID, userID string) (bool, int, error) {
	if repo.likes[postID] == nil {
		repo.likes[postID] = map[string]struct{}{}
	}
	if _, ok := repo.likes[postID][userID]; ok {
		delete(repo.likes[postID], userID)
		return false, len(repo.likes[postID]), nil
	}
	repo.likes[postID][userID] = struct{}{}
	return true, len(repo.likes[postID]), nil
}

func (repo *memoryRepository) Featured(_ context.Context, n int) ([]*Post, error) {
	featured := make([]*Post, 0, n)
	for _, post := range repo.posts {
		if post.IsFeatured && post.Status == StatusPublished {
			featured = append(featured, post)
		}
	}
	return featured, nil
}

func (repo *memoryRepository) Popular(_ context.Context, n int) ([]*Post, error) {
	popular := make([]*Post, 0, n)
	for _, post := range repo.posts {
		if post.Status == StatusPublished {
			popular = append(popular, post)
		}
	}
	return popular, nil
}

func (repo *memoryRepository) Related(_ context.Context, postID string, tags []string, n int) ([]*Post, error) {
	related := make([]*Post, 0, n)
	for _, post := range repo.posts {
		if post.ID == postID || post.Status != StatusPublished {
			continue
		}
		for _, tag := range tags {
			for _, other := range post.Tags {
				if tag == other {
					related = append(related, post)
				}
			}
		}
	}
	return related, nil
}

func (repo *memoryRepository) Tags(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var tags []string
	for _, post := range repo.posts {
		for _, tag := range post.Tags {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

func (repo *memoryRepository) AddViews(_ context.Context, postID string, delta int64) error {
	post, ok := repo.posts[postID]
	if !ok {
		return apperr.NotFound("Post")
	}
	post.ViewCount += delta
	return nil
}

// memoryViewStore is an in-memory ViewStore for service tests.
type memoryViewStore struct {
	pending map[string]int64
	popular []*Post
	fail    bool
}

func newMemoryViewStore() *memoryViewStore {
	return &memoryViewStore{pending: map[string]int64{}}
}

func (store *memoryViewStore) IncrementView(_ context.Context, postID string) error {
	if store.fail {
		return errors.New("redis unavailable")
	}
	store.pending[postID]++
	return nil
}

func (store *memoryViewStore) DrainViews(_ context.Context) (map[string]int64, error) {
	drained := store.pending
	store.pending = map[string]int64{}
	return drained, nil
}

func (store *memoryViewStore) CachePopular(_ context.Context, posts []*Post) error {
	store.popular = posts
	return nil
}

func (store *memoryViewStore) PopularFromCache(_ context.Context) ([]*Post, error) {
	return store.popular, nil
}

// memoryNewsletter records subscriptions for assertion.
type memoryNewsletter struct {
	emails []string
}

func (repo *memoryNewsletter) Subscribe(_ context.Context, email string) error {
	for _, existing := range repo.emails {
		if existing == email {
			return apperr.Conflict("Subscription already exists")
		}
	}
	repo.emails = append(repo.emails, email)
	return nil
}

// # Helpers

func newTestService(t *testing.T) (*Service, *memoryRepository, *memoryViewStore, *memoryNewsletter) {
	t.Helper()
	repo := newMemoryRepository()
	views := newMemoryViewStore()
	newsletter := &memoryNewsletter{}
	service := NewService(repo, views, newsletter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repo, views, newsletter
}

// # Tests

/*
TestService_Create_SlugConflict verifies that the slug is derived from the
title and that a second post with the same title is rejected as a conflict.
*/
func TestService_Create_SlugConflict(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	// 1. Author the first post.
	created, err := service.Create(ctx, "author-1", CreateInput{
		Title:   "Going Steady With Go",
		Content: "body",
		Tags:    []string{" Go ", "go", "Web"},
	})
	require.NoError(t, err)
	assert.Equal(t, "going-steady-with-go", created.Slug)
	assert.Equal(t, StatusDraft, created.Status, "status defaults to draft")
	assert.Equal(t, []string{"go", "web"}, created.Tags, "tags are trimmed, lowercased, deduplicated")

	// 2. A second post with the same title collides on the slug.
	_, err = service.Create(ctx, "author-2", CreateInput{Title: "Going Steady With Go", Content: "other"})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeConflict, appErr.Code)
}

/*
TestService_Update_Authorization verifies that only the author or an admin
may modify a post, and that featuring is admin-only even for the author.
*/
func TestService_Update_Authorization(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "author-1", CreateInput{Title: "Mine", Content: "body"})
	require.NoError(t, err)

	newTitle := "Renamed"

	// 1. A stranger cannot edit.
	_, err = service.Update(ctx, "stranger", sec.RoleUser, created.ID, UpdateInput{Title: &newTitle})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)

	// 2. The author can edit; the slug follows the title.
	updated, err := service.Update(ctx, "author-1", sec.RoleUser, created.ID, UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Slug)

	// 3. The author cannot feature their own post.
	featured := true
	_, err = service.Update(ctx, "author-1", sec.RoleUser, created.ID, UpdateInput{IsFeatured: &featured})
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)

	// 4. An admin can edit and feature someone else's post.
	updated, err = service.Update(ctx, "admin-1", sec.RoleAdmin, created.ID, UpdateInput{IsFeatured: &featured})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
}

/*
TestService_GetBySlug_CountsView verifies that reading a post buffers a view
and that a counter failure never blocks the read path.
*/
func TestService_GetBySlug_CountsView(t *testing.T) {
	service, _, views, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "author-1", CreateInput{Title: "Read Me", Content: "body"})
	require.NoError(t, err)

	// 1. Each read buffers one view.
	_, err = service.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	_, err = service.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views.pending[created.ID])

	// 2. A broken counter degrades to a plain read.
	views.fail = true
	post, err := service.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, post.ID)
}

/*
TestService_FlushViews verifies that drained counters are folded into the
durable rows and that the buffer is reset.
*/
func TestService_FlushViews(t *testing.T) {
	service, repo, views, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "author-1", CreateInput{Title: "Busy Post", Content: "body"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = service.GetBySlug(ctx, created.Slug)
		require.NoError(t, err)
	}

	// 1. Flushing moves the buffered count into the row.
	require.NoError(t, service.FlushViews(ctx))
	assert.Equal(t, int64(3), repo.posts[created.ID].ViewCount)

	// 2. A second flush is a no-op.
	require.NoError(t, service.FlushViews(ctx))
	assert.Equal(t, int64(3), repo.posts[created.ID].ViewCount)
	assert.Empty(t, views.pending)
}

/*
TestService_Popular_CacheAside verifies that the popular selection is computed
once and then served from the cache.
*/
func TestService_Popular_CacheAside(t *testing.T) {
	service, repo, views, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "author-1", CreateInput{
		Title:   "Crowd Favorite",
		Content: "body",
		Status:  StatusPublished,
	})
	require.NoError(t, err)

	// 1. Cold cache computes from the repository and warms the cache.
	popular, err := service.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, created.ID, popular[0].ID)
	require.NotNil(t, views.popular)

	// 2. A warm cache hides later repository changes until it expires.
	delete(repo.posts, created.ID)
	popular, err = service.Popular(ctx)
	require.NoError(t, err)
	assert.Len(t, popular, 1)
}

/*
TestService_List_DefaultsToPublished verifies that an empty status filter
never leaks drafts.
*/
func TestService_List_DefaultsToPublished(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, "author-1", CreateInput{Title: "Draft Piece", Content: "body"})
	require.NoError(t, err)
	published, err := service.Create(ctx, "author-1", CreateInput{
		Title:   "Published Piece",
		Content: "body",
		Status:  StatusPublished,
	})
	require.NoError(t, err)

	posts, total, err := service.List(ctx, Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, published.ID, posts[0].ID)
}

/*
TestService_ToggleLike verifies the like flip-flops and requires an existing
post.
*/
func TestService_ToggleLike(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, "author-1", CreateInput{Title: "Likeable", Content: "body"})
	require.NoError(t, err)

	// 1. First toggle likes.
	liked, count, err := service.ToggleLike(ctx, "reader-1", created.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	// 2. Second toggle unlikes.
	liked, count, err = service.ToggleLike(ctx, "reader-1", created.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	// 3. A missing post is a NotFound, not a dangling like.
	_, _, err = service.ToggleLike(ctx, "reader-1", "missing")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

/*
TestService_Subscribe verifies email normalization and duplicate rejection.
*/
func TestService_Subscribe(t *testing.T) {
	service, _, _, newsletter := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.Subscribe(ctx, "  Reader@Example.COM "))
	require.Equal(t, []string{"reader@example.com"}, newsletter.emails)

	err := service.Subscribe(ctx, "reader@example.com")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeConflict, appErr.Code)
}
