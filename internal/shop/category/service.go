package category

import (
	"context"
	"log/slog"

	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/pkg/slug"
	"github.com/sewcraft/api/pkg/uuid"
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

func (service *Service) List(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

// Get resolves a category by UUID or slug.
func (service *Service) Get(context context.Context, identifier string) (*Category, error) {
	if len(identifier) == 36 {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

func (service *Service) Create(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required("name", category.Name).MaxLen("name", category.Name, 120)
	if err := validator.Err(); err != nil {
		return err
	}

	category.ID = uuid.New()
	category.Slug = slug.From(category.Name)

	if err := service.repo.Create(context, category); err != nil {
		return err
	}

	service.logger.Info("category_created", slog.String("category_id", category.ID))
	return nil
}

func (service *Service) Update(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required("name", category.Name).MaxLen("name", category.Name, 120)
	if err := validator.Err(); err != nil {
		return err
	}

	category.Slug = slug.From(category.Name)

	if err := service.repo.Update(context, category); err != nil {
		return err
	}

	service.logger.Info("category_updated", slog.String("category_id", category.ID))
	return nil
}

func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}
