package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Service defines catalog read and admin management operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetBySlug(ctx context.Context, slug string) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Create(ctx context.Context, input CreateInput) (*View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*View, error)
	UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input UpdateVariantInput) (*View, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
}

type service struct {
	repo Repository
}

// ListParams configures catalog listing. PublicOnly hides inactive rows.
type ListParams struct {
	Limit        int
	Cursor       string
	CategoryID   *uuid.UUID
	BrandID      *uuid.UUID
	FeaturedOnly bool
	PublicOnly   bool
	Search       string
}

// ListResult wraps returned products and the cursor for the next page.
type ListResult struct {
	Items  []View `json:"items"`
	Cursor string `json:"cursor"`
}

// CreateInput carries the admin payload for a new listing.
type CreateInput struct {
	CategoryID          uuid.UUID
	BrandID             *uuid.UUID
	Title               string
	Slug                string
	Description         *string
	PriceCents          int
	CompareAtPriceCents *int
	Images              []string
	IsActive            bool
	IsFeatured          bool
}

// UpdateInput carries partial admin edits. Nil fields are left unchanged.
type UpdateInput struct {
	CategoryID          *uuid.UUID
	BrandID             *uuid.UUID
	Title               *string
	Slug                *string
	Description         *string
	PriceCents          *int
	CompareAtPriceCents *int
	Images              []string
	IsActive            *bool
	IsFeatured          *bool
}

// VariantInput carries the admin payload for a new sellable unit.
type VariantInput struct {
	Label       string
	SKU         string
	PriceCents  *int
	Stock       int
	WeightGrams int
	LengthCM    *int
	WidthCM     *int
	HeightCM    *int
	IsActive    bool
}

// UpdateVariantInput carries partial variant edits. Nil fields are left unchanged.
type UpdateVariantInput struct {
	Label       *string
	SKU         *string
	PriceCents  *int
	Stock       *int
	WeightGrams *int
	LengthCM    *int
	WidthCM     *int
	HeightCM    *int
	IsActive    *bool
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := ListQuery{
		Limit:        params.Limit,
		CategoryID:   params.CategoryID,
		BrandID:      params.BrandID,
		FeaturedOnly: params.FeaturedOnly,
		ActiveOnly:   params.PublicOnly,
		Search:       strings.TrimSpace(params.Search),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]View, 0, len(rows))
	for i := range rows {
		items = append(items, NewView(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*View, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}
	product, err := s.repo.FindBySlug(ctx, trimmed)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	view := NewView(product)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewView(product)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and slug are required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.CompareAtPriceCents != nil && *input.CompareAtPriceCents <= input.PriceCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare-at price must exceed price")
	}

	product := &models.Product{
		CategoryID:          input.CategoryID,
		BrandID:             input.BrandID,
		Title:               strings.TrimSpace(input.Title),
		Slug:                strings.TrimSpace(input.Slug),
		Description:         input.Description,
		PriceCents:          input.PriceCents,
		CompareAtPriceCents: input.CompareAtPriceCents,
		Images:              pq.StringArray(input.Images),
		IsActive:            input.IsActive,
		IsFeatured:          input.IsFeatured,
	}
	if product.Images == nil {
		product.Images = pq.StringArray{}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	view := NewView(product)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		product.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.CompareAtPriceCents != nil {
		product.CompareAtPriceCents = input.CompareAtPriceCents
	}
	if input.Images != nil {
		product.Images = pq.StringArray(input.Images)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if product.CompareAtPriceCents != nil && *product.CompareAtPriceCents <= product.PriceCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare-at price must exceed price")
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	view := NewView(product)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) CreateVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*View, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Label) == "" || strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label and sku are required")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	variant := &models.ProductVariant{
		ProductID:   productID,
		Label:       strings.TrimSpace(input.Label),
		SKU:         strings.TrimSpace(input.SKU),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		WeightGrams: input.WeightGrams,
		LengthCM:    input.LengthCM,
		WidthCM:     input.WidthCM,
		HeightCM:    input.HeightCM,
		IsActive:    input.IsActive,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}
	return s.Get(ctx, productID)
}

func (s *service) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input UpdateVariantInput) (*View, error) {
	variant, err := s.repo.FindVariant(ctx, variantID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}

	if input.Label != nil {
		variant.Label = strings.TrimSpace(*input.Label)
	}
	if input.SKU != nil {
		variant.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.PriceCents != nil {
		variant.PriceCents = input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		variant.Stock = *input.Stock
	}
	if input.WeightGrams != nil {
		variant.WeightGrams = *input.WeightGrams
	}
	if input.LengthCM != nil {
		variant.LengthCM = input.LengthCM
	}
	if input.WidthCM != nil {
		variant.WidthCM = input.WidthCM
	}
	if input.HeightCM != nil {
		variant.HeightCM = input.HeightCM
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
	}
	return s.Get(ctx, productID)
}

func (s *service) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	err := s.repo.DeleteVariant(ctx, productID, variantID)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
