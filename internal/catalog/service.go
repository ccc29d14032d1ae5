package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Service defines storefront navigation reads and admin management for
// categories and brands.
type Service interface {
	ListCategories(ctx context.Context, publicOnly bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListBrands(ctx context.Context, publicOnly bool) ([]models.Brand, error)
	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// CategoryInput carries the admin payload for a new category.
type CategoryInput struct {
	Name     string
	Slug     string
	Position int
	IsActive bool
}

// UpdateCategoryInput carries partial category edits. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name     *string
	Slug     *string
	Position *int
	IsActive *bool
}

// BrandInput carries the admin payload for a new brand.
type BrandInput struct {
	Name     string
	Slug     string
	LogoURL  *string
	IsActive bool
}

// UpdateBrandInput carries partial brand edits. Nil fields are left unchanged.
type UpdateBrandInput struct {
	Name     *string
	Slug     *string
	LogoURL  *string
	IsActive *bool
}

// NewService wires catalog navigation dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context, publicOnly bool) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}
	category := &models.Category{
		Name:     strings.TrimSpace(input.Name),
		Slug:     strings.TrimSpace(input.Slug),
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		category.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Position != nil {
		category.Position = *input.Position
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if category.Name == "" || category.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteCategory(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListBrands(ctx context.Context, publicOnly bool) ([]models.Brand, error) {
	rows, err := s.repo.ListBrands(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}
	brand := &models.Brand{
		Name:     strings.TrimSpace(input.Name),
		Slug:     strings.TrimSpace(input.Slug),
		LogoURL:  input.LogoURL,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error) {
	brand, err := s.repo.FindBrand(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}

	if input.Name != nil {
		brand.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		brand.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.LogoURL != nil {
		brand.LogoURL = input.LogoURL
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}
	if brand.Name == "" || brand.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}

	if err := s.repo.UpdateBrand(ctx, brand); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
	}
	return brand, nil
}

func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteBrand(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brand")
	}
	return nil
}
