package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Rejection reasons surfaced to clients when a coupon cannot be applied.
var (
	ErrInactive    = errors.New("coupon is not active")
	ErrNotStarted  = errors.New("coupon is not yet valid")
	ErrExpired     = errors.New("coupon has expired")
	ErrExhausted   = errors.New("coupon usage limit reached")
	ErrMinSubtotal = errors.New("cart subtotal below coupon minimum")
	ErrOutOfScope  = errors.New("coupon does not apply to any cart items")
)

// Service defines coupon validation and admin management.
type Service interface {
	Resolve(ctx context.Context, code string, subtotalCents int, at time.Time) (*models.Coupon, int, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateInput carries the admin payload for a new coupon. An empty
// CategoryScope means the coupon covers every product.
type CreateInput struct {
	Code             string
	Kind             enums.CouponKind
	Value            int
	MinSubtotalCents int
	MaxUses          *int
	CategoryScope    []uuid.UUID
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	IsActive         bool
}

// UpdateInput carries partial coupon edits. Nil fields are left unchanged; an
// empty CategoryScope slice clears the scope.
type UpdateInput struct {
	Code             *string
	Kind             *enums.CouponKind
	Value            *int
	MinSubtotalCents *int
	MaxUses          *int
	CategoryScope    *[]uuid.UUID
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	IsActive         *bool
}

// NewService wires coupon dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "coupons repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve loads the coupon by code, checks it is usable against the subtotal
// at the given instant, and returns the discount it grants in cents.
func (s *service) Resolve(ctx context.Context, code string, subtotalCents int, at time.Time) (*models.Coupon, int, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, trimmed)
	if errors.Is(err, ErrNotFound) {
		return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if err := Usable(coupon, subtotalCents, at); err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return coupon, Discount(coupon, subtotalCents), nil
}

// Usable reports whether the coupon can be applied to the given subtotal at
// the given instant.
func Usable(coupon *models.Coupon, subtotalCents int, at time.Time) error {
	if !coupon.IsActive {
		return ErrInactive
	}
	if coupon.StartsAt != nil && at.Before(*coupon.StartsAt) {
		return ErrNotStarted
	}
	if coupon.ExpiresAt != nil && !at.Before(*coupon.ExpiresAt) {
		return ErrExpired
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return ErrExhausted
	}
	if subtotalCents < coupon.MinSubtotalCents {
		return ErrMinSubtotal
	}
	return nil
}

// ScopedSubtotal returns the cents the coupon may discount. Coupons without a
// category scope cover the whole cart; scoped coupons cover only lines whose
// product belongs to a listed category.
func ScopedSubtotal(coupon *models.Coupon, items []models.CartItem) int {
	scope := make(map[string]struct{}, len(coupon.CategoryScope))
	for _, id := range coupon.CategoryScope {
		scope[id] = struct{}{}
	}

	total := 0
	for _, item := range items {
		if len(scope) > 0 {
			if item.Product == nil {
				continue
			}
			if _, ok := scope[item.Product.CategoryID.String()]; !ok {
				continue
			}
		}
		total += item.Quantity * item.UnitPriceCents
	}
	return total
}

// Discount computes the granted discount in cents. Percent coupons round to
// the nearest cent; fixed coupons never exceed the subtotal.
func Discount(coupon *models.Coupon, subtotalCents int) int {
	switch coupon.Kind {
	case enums.CouponKindPercent:
		subtotal := decimal.NewFromInt(int64(subtotalCents))
		percent := decimal.NewFromInt(int64(coupon.Value))
		return int(subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	case enums.CouponKindFixed:
		if coupon.Value > subtotalCents {
			return subtotalCents
		}
		return coupon.Value
	default:
		return 0
	}
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon kind")
	}
	if err := validateValue(input.Kind, input.Value); err != nil {
		return nil, err
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && !input.StartsAt.Before(*input.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must precede expires_at")
	}

	coupon := &models.Coupon{
		Code:             code,
		Kind:             input.Kind,
		Value:            input.Value,
		MinSubtotalCents: input.MinSubtotalCents,
		MaxUses:          input.MaxUses,
		CategoryScope:    scopeArray(input.CategoryScope),
		StartsAt:         input.StartsAt,
		ExpiresAt:        input.ExpiresAt,
		IsActive:         input.IsActive,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return coupon, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if input.Code != nil {
		coupon.Code = strings.ToUpper(strings.TrimSpace(*input.Code))
	}
	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon kind")
		}
		coupon.Kind = *input.Kind
	}
	if input.Value != nil {
		coupon.Value = *input.Value
	}
	if input.MinSubtotalCents != nil {
		coupon.MinSubtotalCents = *input.MinSubtotalCents
	}
	if input.MaxUses != nil {
		coupon.MaxUses = input.MaxUses
	}
	if input.CategoryScope != nil {
		coupon.CategoryScope = scopeArray(*input.CategoryScope)
	}
	if input.StartsAt != nil {
		coupon.StartsAt = input.StartsAt
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if coupon.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if err := validateValue(coupon.Kind, coupon.Value); err != nil {
		return nil, err
	}
	if coupon.StartsAt != nil && coupon.ExpiresAt != nil && !coupon.StartsAt.Before(*coupon.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must precede expires_at")
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return coupon, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

func scopeArray(ids []uuid.UUID) pq.StringArray {
	if len(ids) == 0 {
		return nil
	}
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func validateValue(kind enums.CouponKind, value int) error {
	if value <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if kind == enums.CouponKindPercent && value > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "percent value cannot exceed 100")
	}
	return nil
}
