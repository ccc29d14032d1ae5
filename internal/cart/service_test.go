package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

type stubCartRepo struct {
	record         *models.CartRecord
	conflictRecord *models.CartRecord
	findErr        error
	createErr      error
	upserted       *models.CartItem
	deletedVariant *uuid.UUID
	cleared        bool
	couponSet      bool
	couponID       *uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) Create(ctx context.Context, cart *models.CartRecord) error {
	if s.createErr != nil {
		// Mirror a concurrent insert winning the race.
		s.record = s.conflictRecord
		return s.createErr
	}
	cart.ID = uuid.New()
	s.record = cart
	return nil
}

func (s *stubCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.record == nil {
		return nil, ErrNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil {
		return nil, ErrNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) SetCoupon(ctx context.Context, cartID uuid.UUID, couponID *uuid.UUID) error {
	s.couponSet = true
	s.couponID = couponID
	if s.record != nil {
		s.record.CouponID = couponID
	}
	return nil
}

func (s *stubCartRepo) MarkConverted(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubCartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error {
	s.upserted = item
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	s.deletedVariant = &variantID
	return nil
}

func (s *stubCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	s.cleared = true
	if s.record != nil {
		s.record.Items = nil
	}
	return nil
}

type stubProductRepo struct {
	variant    *models.ProductVariant
	product    *models.Product
	variantErr error
	productErr error
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.product, nil
}

func (s *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.product, nil
}

func (s *stubProductRepo) List(ctx context.Context, params products.ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubProductRepo) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (s *stubProductRepo) UpdateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (s *stubProductRepo) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	return nil
}

func (s *stubProductRepo) FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	if s.variantErr != nil {
		return nil, s.variantErr
	}
	return s.variant, nil
}

func (s *stubProductRepo) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (int64, error) {
	return 1, nil
}

type stubCouponResolver struct {
	coupon   *models.Coupon
	discount int
	err      error
}

func (s *stubCouponResolver) Resolve(ctx context.Context, code string, subtotalCents int, at time.Time) (*models.Coupon, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.coupon, s.discount, nil
}

func newTestService(repo Repository, productRepo products.Repository, resolver couponResolver) Service {
	svc, err := NewService(repo, productRepo, resolver)
	if err != nil {
		panic(err)
	}
	return svc
}

func activeCart(userID uuid.UUID) *models.CartRecord {
	return &models.CartRecord{ID: uuid.New(), UserID: userID}
}

func catalogFixture() (*stubProductRepo, uuid.UUID) {
	productID := uuid.New()
	variantID := uuid.New()
	return &stubProductRepo{
		product: &models.Product{
			ID:         productID,
			Title:      "Cotton Tee",
			PriceCents: 4990,
			IsActive:   true,
		},
		variant: &models.ProductVariant{
			ID:        variantID,
			ProductID: productID,
			Label:     "M",
			SKU:       "TEE-M",
			Stock:     3,
			IsActive:  true,
		},
	}, variantID
}

func TestGetCreatesCartWhenAbsent(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	view, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.record == nil {
		t.Fatal("expected a cart to be created")
	}
	if view.ID != repo.record.ID {
		t.Fatalf("expected view for created cart, got %s", view.ID)
	}
	if len(view.Items) != 0 || view.TotalCents != 0 {
		t.Fatalf("expected empty cart view, got %+v", view)
	}
}

func TestGetRequiresUserID(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{}, &stubProductRepo{}, &stubCouponResolver{})
	_, err := svc.Get(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetRecoversFromConcurrentCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	existing := activeCart(userID)
	repo := &stubCartRepo{
		createErr:      errors.New(`duplicate key value violates unique constraint "idx_carts_user_active"`),
		conflictRecord: existing,
	}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	view, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID != existing.ID {
		t.Fatalf("expected the concurrently created cart, got %s", view.ID)
	}
}

func TestSetItemSnapshotsPrice(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upserted == nil {
		t.Fatal("expected an upserted item")
	}
	if repo.upserted.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", repo.upserted.Quantity)
	}
	if repo.upserted.UnitPriceCents != 4990 {
		t.Fatalf("expected product price snapshot, got %d", repo.upserted.UnitPriceCents)
	}
}

func TestSetItemUsesVariantPriceOverride(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	override := 5990
	productRepo.variant.PriceCents = &override
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upserted.UnitPriceCents != 5990 {
		t.Fatalf("expected variant price override, got %d", repo.upserted.UnitPriceCents)
	}
}

func TestSetItemClampsToStock(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upserted.Quantity != 3 {
		t.Fatalf("expected quantity clamped to stock 3, got %d", repo.upserted.Quantity)
	}
}

func TestSetItemOutOfStock(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	productRepo.variant.Stock = 0
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetItemZeroQuantityRemovesLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	variantID := uuid.New()
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedVariant == nil || *repo.deletedVariant != variantID {
		t.Fatalf("expected line removal for %s", variantID)
	}
}

func TestSetItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{}, &stubProductRepo{}, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), uuid.New(), SetItemInput{Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing variant, got %v", err)
	}

	_, err = svc.SetItem(context.Background(), uuid.New(), SetItemInput{VariantID: uuid.New(), Quantity: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}
}

func TestSetItemUnknownVariant(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	svc := newTestService(repo, &stubProductRepo{variantErr: products.ErrNotFound}, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: uuid.New(), Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetItemInactiveVariant(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	productRepo.variant.IsActive = false
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetItemInactiveProduct(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	productRepo, variantID := catalogFixture()
	productRepo.product.IsActive = false
	svc := newTestService(repo, productRepo, &stubCouponResolver{})

	_, err := svc.SetItem(context.Background(), userID, SetItemInput{VariantID: variantID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyCouponOnEmptyCart(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubCartRepo{record: activeCart(userID)}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	_, err := svc.ApplyCoupon(context.Background(), userID, "SAVE20")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.couponSet {
		t.Fatal("coupon must not be written on an empty cart")
	}
}

func TestApplyCouponPinsCoupon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	record := activeCart(userID)
	record.Items = []models.CartItem{{Quantity: 2, UnitPriceCents: 5000}}
	repo := &stubCartRepo{record: record}

	coupon := &models.Coupon{ID: uuid.New(), Code: "SAVE20"}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{coupon: coupon, discount: 2000})

	_, err := svc.ApplyCoupon(context.Background(), userID, "SAVE20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.couponSet || repo.couponID == nil || *repo.couponID != coupon.ID {
		t.Fatalf("expected coupon %s pinned, got %v", coupon.ID, repo.couponID)
	}
}

func TestApplyCouponPropagatesResolverError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	record := activeCart(userID)
	record.Items = []models.CartItem{{Quantity: 1, UnitPriceCents: 1000}}
	repo := &stubCartRepo{record: record}

	resolverErr := pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{err: resolverErr})

	_, err := svc.ApplyCoupon(context.Background(), userID, "NOPE")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRemoveCoupon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	record := activeCart(userID)
	couponID := uuid.New()
	record.CouponID = &couponID
	repo := &stubCartRepo{record: record}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	_, err := svc.RemoveCoupon(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.couponSet || repo.couponID != nil {
		t.Fatal("expected coupon cleared")
	}
}

func TestClearDropsItemsAndCoupon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	record := activeCart(userID)
	record.Items = []models.CartItem{{Quantity: 1, UnitPriceCents: 1000}}
	repo := &stubCartRepo{record: record}
	svc := newTestService(repo, &stubProductRepo{}, &stubCouponResolver{})

	view, err := svc.Clear(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.cleared {
		t.Fatal("expected items cleared")
	}
	if !repo.couponSet || repo.couponID != nil {
		t.Fatal("expected coupon cleared")
	}
	if len(view.Items) != 0 || view.TotalCents != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}
