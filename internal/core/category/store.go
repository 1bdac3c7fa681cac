package category

import "context"

type Repository interface {
	Create(context context.Context, category *Category) error
	List(context context.Context) ([]*Category, error)
	FindBySlug(context context.Context, slug string) (*Category, error)
}
