// Copyright (c) 2026 Inkpress. All rights reserved.

/*
PostgreSQL implementation of the post storage contracts.

It utilizes advanced Postgres features for the discovery surface:
  - Full-Text Search: 'websearch_to_tsquery' over a GIN-indexed tsvector.
  - Window Functions: COUNT(*) OVER() delivers total counts in one query.
  - Array Operators: tag filtering and related-post lookups via && overlap.
*/

package post

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/dberr"
)

// # Post Repository

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed post store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// postColumns is the canonical select list, joined with author and category
// names and the aggregated like count.
const postColumns = `
	p.id, p.title, p.slug, p.content, p.excerpt, p.coverurl,
	p.authorid, a.username,
	p.categoryid, COALESCE(c.name, ''),
	p.tags, p.status, p.isfeatured, p.viewcount,
	(SELECT COUNT(*) FROM core.post_like l WHERE l.postid = p.id),
	p.createdat, p.updatedat`

const postJoins = `
	FROM core.post p
	JOIN users.account a ON a.id = p.authorid
	LEFT JOIN core.category c ON c.id = p.categoryid`

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.CoverURL,
		&post.AuthorID,
		&post.AuthorName,
		&post.CategoryID,
		&post.CategoryName,
		&post.Tags,
		&post.Status,
		&post.IsFeatured,
		&post.ViewCount,
		&post.LikeCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}

func (repository *postgresRepository) Create(context context.Context, post *Post) error {
	const query = `
		INSERT INTO core.post (
			id, title, slug, content, excerpt, coverurl, authorid, categoryid,
			tags, status, isfeatured, viewcount, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, NOW(), NOW())`

	_, err := repository.pool.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.CoverURL,
		post.AuthorID,
		post.CategoryID,
		post.Tags,
		post.Status,
		post.IsFeatured,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return nil
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := "SELECT" + postColumns + postJoins + " WHERE p.id = $1"

	post, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_repo_find_by_id_failed: %w", err)
	}
	return post, nil
}

func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	query := "SELECT" + postColumns + postJoins + " WHERE p.slug = $1"

	post, err := scanPost(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_repo_find_by_slug_failed: %w", err)
	}
	return post, nil
}

/*
List returns a filtered, paginated slice of posts and the total match count.

Description: Builds a dynamic WHERE clause and uses a COUNT(*) OVER() window
function so a single round-trip returns both the page and the total.

Parameters:
  - context: context.Context
  - filter: Filter (status, category, tag, author, search)
  - limit: int
  - offset: int

Returns:
  - []*Post: Page of hydrated posts
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString("SELECT" + postColumns + ", COUNT(*) OVER() AS total_count" + postJoins + " WHERE TRUE")

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.slug = $%d", argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	if filter.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(p.tags)", argID))
		args = append(args, filter.Tag)
		argID++
	}

	if filter.AuthorID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.authorid = $%d", argID))
		args = append(args, filter.AuthorID)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND to_tsvector('english', p.title || ' ' || p.content) @@ websearch_to_tsquery('english', $%d)", argID))
		args = append(args, filter.Search)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY p.createdat DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	total := 0

	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.Excerpt,
			&post.CoverURL,
			&post.AuthorID,
			&post.AuthorName,
			&post.CategoryID,
			&post.CategoryName,
			&post.Tags,
			&post.Status,
			&post.IsFeatured,
			&post.ViewCount,
			&post.LikeCount,
			&post.CreatedAt,
			&post.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		if post.Tags == nil {
			post.Tags = []string{}
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_rows_failed: %w", err)
	}

	return posts, total, nil
}

func (repository *postgresRepository) Update(context context.Context, post *Post) error {
	const query = `
		UPDATE core.post
		SET title = $2, slug = $3, content = $4, excerpt = $5, coverurl = $6,
		    categoryid = $7, tags = $8, status = $9, isfeatured = $10, updatedat = NOW()
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.CoverURL,
		post.CategoryID,
		post.Tags,
		post.Status,
		post.IsFeatured,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	return nil
}

func (repository *postgresRepository) Delete(context context.Context, id string) error {
	// Comments and likes cascade via their FK constraints.
	tag, err := repository.pool.Exec(context, "DELETE FROM core.post WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

/*
ToggleLike flips the user's like on a post inside a single transaction and
returns the new state and the resulting count.
*/
func (repository *postgresRepository) ToggleLike(context context.Context, postID, userID string) (bool, int, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return false, 0, fmt.Errorf("postgres_post_repo_like_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	tag, err := transaction.Exec(context,
		"DELETE FROM core.post_like WHERE postid = $1 AND userid = $2", postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("postgres_post_repo_unlike_failed: %w", err)
	}

	liked := false
	if tag.RowsAffected() == 0 {
		// Nothing deleted: this is a like, not an unlike.
		_, err = transaction.Exec(context,
			"INSERT INTO core.post_like (postid, userid, createdat) VALUES ($1, $2, NOW())", postID, userID)
		if err != nil {
			return false, 0, dberr.Wrap(err, "Post")
		}
		liked = true
	}

	count := 0
	err = transaction.QueryRow(context,
		"SELECT COUNT(*) FROM core.post_like WHERE postid = $1", postID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("postgres_post_repo_like_count_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return false, 0, fmt.Errorf("postgres_post_repo_like_commit_failed: %w", err)
	}

	return liked, count, nil
}

func (repository *postgresRepository) Featured(context context.Context, n int) ([]*Post, error) {
	query := "SELECT" + postColumns + postJoins +
		" WHERE p.status = $1 AND p.isfeatured ORDER BY p.createdat DESC LIMIT $2"
	return repository.queryPosts(context, query, StatusPublished, n)
}

func (repository *postgresRepository) Popular(context context.Context, n int) ([]*Post, error) {
	query := "SELECT" + postColumns + postJoins + `
		WHERE p.status = $1
		ORDER BY p.viewcount DESC,
		         (SELECT COUNT(*) FROM core.post_like l WHERE l.postid = p.id) DESC
		LIMIT $2`
	return repository.queryPosts(context, query, StatusPublished, n)
}

func (repository *postgresRepository) Related(context context.Context, postID string, tags []string, n int) ([]*Post, error) {
	if len(tags) == 0 {
		return []*Post{}, nil
	}

	query := "SELECT" + postColumns + postJoins + `
		WHERE p.status = $1 AND p.id <> $2 AND p.tags && $3
		ORDER BY p.createdat DESC LIMIT $4`
	return repository.queryPosts(context, query, StatusPublished, postID, tags, n)
}

func (repository *postgresRepository) Tags(context context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT unnest(tags)
		FROM core.post
		WHERE status = $1
		ORDER BY 1`

	rows, err := repository.pool.Query(context, query, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_tags_failed: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("postgres_post_repo_tags_scan_failed: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (repository *postgresRepository) AddViews(context context.Context, postID string, delta int64) error {
	const query = "UPDATE core.post SET viewcount = viewcount + $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, postID, delta)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_add_views_failed: %w", err)
	}
	return nil
}

// queryPosts runs a postColumns select and hydrates the result set.
func (repository *postgresRepository) queryPosts(context context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_query_failed: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// # Newsletter Repository

type postgresNewsletterRepository struct {
	pool *pgxpool.Pool
}

// NewNewsletterRepository constructs a PostgreSQL backed subscription store.
func NewNewsletterRepository(pool *pgxpool.Pool) NewsletterRepository {
	return &postgresNewsletterRepository{pool: pool}
}

func (repository *postgresNewsletterRepository) Subscribe(context context.Context, email string) error {
	const query = "INSERT INTO core.newsletter_subscriber (email, createdat) VALUES ($1, NOW())"
	_, err := repository.pool.Exec(context, query, email)
	if err != nil {
		return dberr.Wrap(err, "Subscription")
	}
	return nil
}
