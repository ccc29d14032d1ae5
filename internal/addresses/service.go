package addresses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/cep"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// Service defines postal lookup and saved-address operations.
type Service interface {
	Lookup(ctx context.Context, postalCode string) (*LookupResult, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.Address, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*types.Address, error)
}

type lookuper interface {
	Lookup(ctx context.Context, postalCode string) (*cep.Result, error)
}

type service struct {
	repo   users.Repository
	lookup lookuper
}

// LookupResult carries the registry answer for a postal code. Found is false
// on a registry miss; the remaining fields are empty in that case.
type LookupResult struct {
	Found        bool   `json:"found"`
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// UpdateInput carries the address payload saved on the account.
type UpdateInput struct {
	PostalCode   string
	Street       string
	Neighborhood string
	City         string
	State        string
	Number       string
	Complement   string
}

// NewService wires address dependencies.
func NewService(repo users.Repository, lookup lookuper) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "postal lookup client required")
	}
	return &service{repo: repo, lookup: lookup}, nil
}

func (s *service) Lookup(ctx context.Context, postalCode string) (*LookupResult, error) {
	result, err := s.lookup.Lookup(ctx, postalCode)
	if errors.Is(err, cep.ErrNotFound) {
		normalized, normErr := cep.Normalize(postalCode)
		if normErr != nil {
			return nil, normErr
		}
		return &LookupResult{Found: false, PostalCode: normalized}, nil
	}
	if err != nil {
		return nil, err
	}
	return &LookupResult{
		Found:        true,
		PostalCode:   result.PostalCode,
		Street:       result.Street,
		Neighborhood: result.Neighborhood,
		City:         result.City,
		State:        result.State,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*types.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.ShippingAddress, nil
}

// Update persists the account's shipping address. The postal registry is
// consulted to canonicalize street/neighborhood/city/state; on a registry
// miss the client-entered values are kept as-is.
func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*types.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if strings.TrimSpace(input.Number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "street number is required")
	}

	normalized, err := cep.Normalize(input.PostalCode)
	if err != nil {
		return nil, err
	}

	address := types.Address{
		PostalCode:   normalized,
		Street:       strings.TrimSpace(input.Street),
		Neighborhood: strings.TrimSpace(input.Neighborhood),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Number:       strings.TrimSpace(input.Number),
		Complement:   strings.TrimSpace(input.Complement),
	}

	result, err := s.lookup.Lookup(ctx, normalized)
	switch {
	case errors.Is(err, cep.ErrNotFound):
		// keep the client-entered fields
	case err != nil:
		return nil, err
	default:
		address.Street = preferRegistry(result.Street, address.Street)
		address.Neighborhood = preferRegistry(result.Neighborhood, address.Neighborhood)
		address.City = preferRegistry(result.City, address.City)
		address.State = preferRegistry(result.State, address.State)
	}

	if address.Street == "" || address.City == "" || address.State == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "street, city, and state are required")
	}

	if err := s.repo.UpdateShippingAddress(ctx, userID, &address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	return &address, nil
}

func preferRegistry(registry, entered string) string {
	if strings.TrimSpace(registry) != "" {
		return registry
	}
	return entered
}
