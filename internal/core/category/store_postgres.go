package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/dberr"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	const query = `
		INSERT INTO core.category (id, name, slug, description, createdat)
		VALUES ($1, $2, $3, $4, NOW())`

	_, err := repository.pool.Exec(context, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
	)
	if err != nil {
		return dberr.Wrap(err, "Category")
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	const query = `
		SELECT c.id, c.name, c.slug, c.description,
		       (SELECT COUNT(*) FROM core.post p WHERE p.categoryid = c.id AND p.status = 'published'),
		       c.createdat
		FROM core.category c
		ORDER BY c.name ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category := &Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.PostCount,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_category_repo_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	const query = `
		SELECT c.id, c.name, c.slug, c.description,
		       (SELECT COUNT(*) FROM core.post p WHERE p.categoryid = c.id AND p.status = 'published'),
		       c.createdat
		FROM core.category c
		WHERE c.slug = $1`

	category := &Category{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.PostCount,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("postgres_category_repo_find_by_slug_failed: %w", err)
	}
	return category, nil
}
