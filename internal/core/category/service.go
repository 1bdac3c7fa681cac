package category

import (
	"context"
	"log/slog"

	"github.com/inkpress/inkpress/pkg/slug"
	"github.com/inkpress/inkpress/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create adds a new category; the slug is derived from the name and
// duplicates surface as Conflict.
func (service *Service) Create(context context.Context, name, description string) (*Category, error) {
	category := &Category{
		ID:          uuidv7.Must(),
		Name:        name,
		Slug:        slug.From(name),
		Description: description,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))
	return category, nil
}

func (service *Service) List(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

func (service *Service) GetBySlug(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.FindBySlug(context, categorySlug)
}
