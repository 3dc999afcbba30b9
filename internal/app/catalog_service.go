package app

import (
	"context"
	"errors"
	"strings"

	"quizhub-service/internal/domain"
)

// CatalogService manages question categories.
type CatalogService struct {
	unique     UniqueChecker
	categories CategoryRepository
}

func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{unique: store, categories: store}
}

// Categories lists every category.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return categories, nil
}

// CreateCategory adds a uniquely named category. Only designers may create categories.
func (s *CatalogService) CreateCategory(ctx context.Context, caller domain.User, name string) (int64, error) {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	err := firstError(
		func() error { return NotEmpty(name, domain.LabelCategory) },
		func() error { return Unique(ctx, s.unique, domain.FieldCategoryName, name, domain.LabelCategory) },
	)
	if err != nil {
		return 0, err
	}

	id, err := s.categories.CreateCategory(ctx, name)
	if errors.Is(err, domain.ErrDuplicate) {
		return 0, domain.Conflict(domain.DuplicateMessage(domain.LabelCategory))
	}
	if err != nil {
		return 0, domain.Internal(err)
	}
	return id, nil
}
