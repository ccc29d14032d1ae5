package delivery

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// Service defines local delivery option and pickup location operations.
type Service interface {
	ListOptions(ctx context.Context, publicOnly bool) ([]models.DeliveryOption, error)
	GetOption(ctx context.Context, id uuid.UUID) (*models.DeliveryOption, error)
	CreateOption(ctx context.Context, input OptionInput) (*models.DeliveryOption, error)
	UpdateOption(ctx context.Context, id uuid.UUID, input UpdateOptionInput) (*models.DeliveryOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error
	ListLocations(ctx context.Context, publicOnly bool) ([]models.PickupLocation, error)
	CreateLocation(ctx context.Context, input LocationInput) (*models.PickupLocation, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*models.PickupLocation, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// OptionInput carries the admin payload for a new delivery method.
type OptionInput struct {
	Name          string
	Description   *string
	FeeCents      int
	EstimatedDays int
	IsActive      bool
}

// UpdateOptionInput carries partial option edits. Nil fields are left unchanged.
type UpdateOptionInput struct {
	Name          *string
	Description   *string
	FeeCents      *int
	EstimatedDays *int
	IsActive      *bool
}

// LocationInput carries the admin payload for a new pickup point.
type LocationInput struct {
	Name     string
	Address  types.Address
	Phone    *string
	IsActive bool
}

// UpdateLocationInput carries partial location edits. Nil fields are left unchanged.
type UpdateLocationInput struct {
	Name     *string
	Address  *types.Address
	Phone    *string
	IsActive *bool
}

// NewService wires delivery dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "delivery repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOptions(ctx context.Context, publicOnly bool) ([]models.DeliveryOption, error) {
	rows, err := s.repo.ListOptions(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery options")
	}
	return rows, nil
}

func (s *service) GetOption(ctx context.Context, id uuid.UUID) (*models.DeliveryOption, error) {
	option, err := s.repo.FindOption(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery option not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery option")
	}
	return option, nil
}

func (s *service) CreateOption(ctx context.Context, input OptionInput) (*models.DeliveryOption, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.FeeCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fee cannot be negative")
	}
	option := &models.DeliveryOption{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		FeeCents:      input.FeeCents,
		EstimatedDays: input.EstimatedDays,
		IsActive:      input.IsActive,
	}
	if err := s.repo.CreateOption(ctx, option); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery option")
	}
	return option, nil
}

func (s *service) UpdateOption(ctx context.Context, id uuid.UUID, input UpdateOptionInput) (*models.DeliveryOption, error) {
	option, err := s.repo.FindOption(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery option not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery option")
	}

	if input.Name != nil {
		option.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		option.Description = input.Description
	}
	if input.FeeCents != nil {
		if *input.FeeCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fee cannot be negative")
		}
		option.FeeCents = *input.FeeCents
	}
	if input.EstimatedDays != nil {
		option.EstimatedDays = *input.EstimatedDays
	}
	if input.IsActive != nil {
		option.IsActive = *input.IsActive
	}
	if option.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if err := s.repo.UpdateOption(ctx, option); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery option")
	}
	return option, nil
}

func (s *service) DeleteOption(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteOption(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery option not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete delivery option")
	}
	return nil
}

func (s *service) ListLocations(ctx context.Context, publicOnly bool) ([]models.PickupLocation, error) {
	rows, err := s.repo.ListLocations(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup locations")
	}
	return rows, nil
}

func (s *service) CreateLocation(ctx context.Context, input LocationInput) (*models.PickupLocation, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Address.Street == "" || input.Address.City == "" || input.Address.State == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address street, city, and state are required")
	}
	location := &models.PickupLocation{
		Name:     strings.TrimSpace(input.Name),
		Address:  input.Address,
		Phone:    input.Phone,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pickup location")
	}
	return location, nil
}

func (s *service) UpdateLocation(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*models.PickupLocation, error) {
	location, err := s.repo.FindLocation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup location not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup location")
	}

	if input.Name != nil {
		location.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		location.Address = *input.Address
	}
	if input.Phone != nil {
		location.Phone = input.Phone
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}
	if location.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if location.Address.Street == "" || location.Address.City == "" || location.Address.State == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address street, city, and state are required")
	}

	if err := s.repo.UpdateLocation(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pickup location")
	}
	return location, nil
}

func (s *service) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteLocation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pickup location not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pickup location")
	}
	return nil
}
