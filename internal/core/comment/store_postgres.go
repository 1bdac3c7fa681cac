// Copyright (c) 2026 Inkpress. All rights reserved.

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/dberr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed comment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const commentColumns = `
	cm.id, cm.postid, cm.authorid, a.username, cm.parentid, cm.content,
	cm.createdat, cm.updatedat`

const commentJoins = `
	FROM core.comment cm
	JOIN users.account a ON a.id = cm.authorid`

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.ParentID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *postgresRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO core.comment (id, postid, authorid, parentid, content, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
	)
	if err != nil {
		// A foreign key violation means the post (or parent) is gone.
		return dberr.Wrap(err, "Post")
	}
	return nil
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := "SELECT" + commentColumns + commentJoins + " WHERE cm.id = $1"

	comment, err := scanComment(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_by_id_failed: %w", err)
	}
	return comment, nil
}

func (repository *postgresRepository) ListByPost(context context.Context, postID string) ([]*Comment, error) {
	query := "SELECT" + commentColumns + commentJoins + " WHERE cm.postid = $1 ORDER BY cm.createdat ASC"

	rows, err := repository.pool.Query(context, query, postID)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (repository *postgresRepository) Update(context context.Context, comment *Comment) error {
	const query = "UPDATE core.comment SET content = $2, updatedat = NOW() WHERE id = $1"

	_, err := repository.pool.Exec(context, query, comment.ID, comment.Content)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}
	return nil
}

// Delete removes the comment and its direct replies in a single statement,
// no recursion.
func (repository *postgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.comment WHERE id = $1 OR parentid = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
