package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Service defines the buyer-facing cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (*View, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) (*View, error)
}

type couponResolver interface {
	Resolve(ctx context.Context, code string, subtotalCents int, at time.Time) (*models.Coupon, int, error)
}

type service struct {
	repo        Repository
	productRepo products.Repository
	couponSvc   couponResolver
}

// SetItemInput sets the absolute quantity of a variant line. Quantity zero
// removes the line.
type SetItemInput struct {
	VariantID uuid.UUID
	Quantity  int
}

// NewService wires cart dependencies.
func NewService(repo Repository, productRepo products.Repository, couponSvc couponResolver) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart repository required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if couponSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "coupons service required")
	}
	return &service{repo: repo, productRepo: productRepo, couponSvc: couponSvc}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := NewView(cart, time.Now().UTC())
	return &view, nil
}

// SetItem writes the absolute quantity for a variant line. Requested
// quantities above the variant's stock are clamped down to it; zero removes
// the line. The unit price is snapshotted from the current catalog price.
func (s *service) SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (*View, error) {
	if input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Quantity == 0 {
		if err := s.repo.DeleteItem(ctx, cart.ID, input.VariantID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return s.reload(ctx, userID)
	}

	variant, err := s.productRepo.FindVariant(ctx, input.VariantID)
	if errors.Is(err, products.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if !variant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is not available")
	}

	product, err := s.productRepo.FindByID(ctx, variant.ProductID)
	if errors.Is(err, products.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	quantity := input.Quantity
	if quantity > variant.Stock {
		quantity = variant.Stock
	}
	if quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is out of stock")
	}

	unitPrice := product.PriceCents
	if variant.PriceCents != nil {
		unitPrice = *variant.PriceCents
	}

	item := &models.CartItem{
		CartID:         cart.ID,
		ProductID:      product.ID,
		VariantID:      variant.ID,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	return s.reload(ctx, userID)
}

func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*View, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := 0
	for _, item := range cart.Items {
		subtotal += item.Quantity * item.UnitPriceCents
	}

	coupon, _, err := s.couponSvc.Resolve(ctx, code, subtotal, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCoupon(ctx, cart.ID, &coupon.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply coupon")
	}
	return s.reload(ctx, userID)
}

func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCoupon(ctx, cart.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove coupon")
	}
	return s.reload(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if err := s.repo.SetCoupon(ctx, cart.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove coupon")
	}
	return s.reload(ctx, userID)
}

// getOrCreate returns the user's active cart, creating one when absent. The
// partial unique index on (user_id) WHERE status = 'active' makes concurrent
// creation safe; on conflict the existing row is re-read.
func (s *service) getOrCreate(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	fresh := &models.CartRecord{UserID: userID}
	if err := s.repo.Create(ctx, fresh); err != nil {
		if db.IsUniqueViolation(err, "") {
			cart, err = s.repo.FindActiveByUser(ctx, userID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
			}
			return cart, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return s.repo.FindByID(ctx, fresh.ID)
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	view := NewView(cart, time.Now().UTC())
	return &view, nil
}
