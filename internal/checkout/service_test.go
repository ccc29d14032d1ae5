package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/internal/coupons"
	"github.com/vitrinelabs/vitrine-backend/internal/delivery"
	"github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
	"github.com/vitrinelabs/vitrine-backend/pkg/shipping"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

type stubCartRepo struct {
	cart        *models.CartRecord
	findErr     error
	markErr     error
	convertedID *uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) error { return nil }

func (s *stubCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.cart, nil
}

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	return s.cart, nil
}

func (s *stubCartRepo) SetCoupon(ctx context.Context, cartID uuid.UUID, couponID *uuid.UUID) error {
	return nil
}

func (s *stubCartRepo) MarkConverted(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.convertedID = &cartID
	return nil
}

func (s *stubCartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) DeleteItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	return nil
}

func (s *stubCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error { return nil }

type stubProductRepo struct {
	outOfStock  bool
	adjustErr   error
	adjustments map[uuid.UUID]int
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, products.ErrNotFound
}

func (s *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return nil, products.ErrNotFound
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
	return nil, products.ErrNotFound
}

func (s *stubProductRepo) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (int64, error) {
	if s.adjustErr != nil {
		return 0, s.adjustErr
	}
	if s.outOfStock {
		return 0, nil
	}
	if s.adjustments == nil {
		s.adjustments = map[uuid.UUID]int{}
	}
	s.adjustments[variantID] += delta
	return 1, nil
}

type stubCouponUsageRepo struct {
	exhausted   bool
	incremented []uuid.UUID
}

func (s *stubCouponUsageRepo) WithTx(tx *gorm.DB) coupons.Repository { return s }

func (s *stubCouponUsageRepo) Create(ctx context.Context, coupon *models.Coupon) error { return nil }

func (s *stubCouponUsageRepo) Update(ctx context.Context, coupon *models.Coupon) error { return nil }

func (s *stubCouponUsageRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubCouponUsageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	return nil, coupons.ErrNotFound
}

func (s *stubCouponUsageRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return nil, coupons.ErrNotFound
}

func (s *stubCouponUsageRepo) List(ctx context.Context) ([]models.Coupon, error) { return nil, nil }

func (s *stubCouponUsageRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	if s.exhausted {
		return 0, nil
	}
	s.incremented = append(s.incremented, id)
	return 1, nil
}

// stubOrderRepo embeds the interface for the unexported list params; List is
// never reached in these tests.
type stubOrderRepo struct {
	orders.Repository
	created   *models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.created == nil {
		return nil, orders.ErrNotFound
	}
	return s.created, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	return 1, nil
}

type stubAccountRepo struct {
	user    *models.User
	findErr error
}

func (s *stubAccountRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubAccountRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, users.ErrNotFound
}

func (s *stubAccountRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (s *stubAccountRepo) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address *types.Address) error {
	return nil
}

func (s *stubAccountRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubAccountRepo) List(ctx context.Context, params users.ListQuery) ([]models.User, *pagination.Cursor, error) {
	return nil, nil, nil
}

type stubDeliveryRepo struct {
	option   *models.DeliveryOption
	location *models.PickupLocation
	options  []models.DeliveryOption
}

func (s *stubDeliveryRepo) WithTx(tx *gorm.DB) delivery.Repository { return s }

func (s *stubDeliveryRepo) CreateOption(ctx context.Context, option *models.DeliveryOption) error {
	return nil
}

func (s *stubDeliveryRepo) UpdateOption(ctx context.Context, option *models.DeliveryOption) error {
	return nil
}

func (s *stubDeliveryRepo) DeleteOption(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubDeliveryRepo) FindOption(ctx context.Context, id uuid.UUID) (*models.DeliveryOption, error) {
	if s.option == nil {
		return nil, delivery.ErrNotFound
	}
	return s.option, nil
}

func (s *stubDeliveryRepo) ListOptions(ctx context.Context, activeOnly bool) ([]models.DeliveryOption, error) {
	return s.options, nil
}

func (s *stubDeliveryRepo) CreateLocation(ctx context.Context, location *models.PickupLocation) error {
	return nil
}

func (s *stubDeliveryRepo) UpdateLocation(ctx context.Context, location *models.PickupLocation) error {
	return nil
}

func (s *stubDeliveryRepo) DeleteLocation(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubDeliveryRepo) FindLocation(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error) {
	if s.location == nil {
		return nil, delivery.ErrNotFound
	}
	return s.location, nil
}

func (s *stubDeliveryRepo) ListLocations(ctx context.Context, activeOnly bool) ([]models.PickupLocation, error) {
	return nil, nil
}

type stubQuoter struct {
	rates []shipping.Rate
	err   error
	calls int
}

func (s *stubQuoter) Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.Rate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

type stubEmitter struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type checkoutFixture struct {
	userID       uuid.UUID
	variantID    uuid.UUID
	cartRepo     *stubCartRepo
	productRepo  *stubProductRepo
	couponRepo   *stubCouponUsageRepo
	orderRepo    *stubOrderRepo
	userRepo     *stubAccountRepo
	deliveryRepo *stubDeliveryRepo
	quoter       *stubQuoter
	emitter      *stubEmitter
	svc          Service
}

// newCheckoutFixture wires the service over stubs and a throwaway sqlite
// handle that only drives the transaction wrapper. The default cart holds one
// line of two units at 5000 cents; the default carrier rate costs 2500.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{DSN: "file::memory:"}, true, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	userID := uuid.New()
	phone := "+55 11 98888-0001"
	user := &models.User{
		ID:        userID,
		Email:     "buyer@example.com",
		FirstName: "Ana",
		LastName:  "Lima",
		Phone:     &phone,
		Role:      enums.UserRoleBuyer,
		IsActive:  true,
		ShippingAddress: &types.Address{
			PostalCode:   "04567000",
			Street:       "Rua das Flores",
			Neighborhood: "Centro",
			City:         "Sao Paulo",
			State:        "SP",
			Number:       "100",
		},
	}

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Title:      "Linen Shirt",
		PriceCents: 5000,
		IsActive:   true,
	}
	variant := &models.ProductVariant{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Label:       "M",
		SKU:         "LS-M",
		Stock:       5,
		WeightGrams: 400,
		IsActive:    true,
	}
	activeCart := &models.CartRecord{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.CartStatusActive,
		Items: []models.CartItem{{
			ProductID:      product.ID,
			VariantID:      variant.ID,
			Quantity:       2,
			UnitPriceCents: 5000,
			Product:        product,
			Variant:        variant,
		}},
	}

	f := &checkoutFixture{
		userID:       userID,
		variantID:    variant.ID,
		cartRepo:     &stubCartRepo{cart: activeCart},
		productRepo:  &stubProductRepo{},
		couponRepo:   &stubCouponUsageRepo{},
		orderRepo:    &stubOrderRepo{},
		userRepo:     &stubAccountRepo{user: user},
		deliveryRepo: &stubDeliveryRepo{},
		quoter: &stubQuoter{rates: []shipping.Rate{
			{Carrier: "correios", Service: "sedex", PriceCents: 2500, EstimatedDays: 3},
		}},
		emitter: &stubEmitter{},
	}

	svc, err := NewService(
		f.cartRepo,
		f.productRepo,
		f.couponRepo,
		f.orderRepo,
		f.userRepo,
		f.deliveryRepo,
		f.quoter,
		client,
		f.emitter,
		nil,
		config.ShippingConfig{
			OriginPostalCode:    "01001000",
			FallbackWeightGrams: 300,
			FallbackLengthCM:    20,
			FallbackWidthCM:     15,
			FallbackHeightCM:    10,
		},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func cashSubmit(cents int) SubmitInput {
	return SubmitInput{Payment: PaymentInput{Method: "cash", CashInHandCents: intPtr(cents)}}
}

func TestSubmitCreatesOrderWithContactSnapshot(t *testing.T) {
	f := newCheckoutFixture(t)

	view, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.created
	if order == nil {
		t.Fatal("expected an order")
	}
	if order.Phone != "+55 11 98888-0001" {
		t.Fatalf("expected account phone on the order, got %q", order.Phone)
	}
	if order.Email != "buyer@example.com" {
		t.Fatalf("expected account email on the order, got %q", order.Email)
	}
	if order.SubtotalCents != 10000 || order.ShippingFeeCents != 2500 || order.TotalCents != 12500 {
		t.Fatalf("unexpected totals %d/%d/%d", order.SubtotalCents, order.ShippingFeeCents, order.TotalCents)
	}
	if order.ChangeDueCents == nil || *order.ChangeDueCents != 2500 {
		t.Fatalf("unexpected change %v", order.ChangeDueCents)
	}
	if f.cartRepo.convertedID == nil {
		t.Fatal("expected the cart to be converted")
	}
	if got := f.productRepo.adjustments[f.variantID]; got != -2 {
		t.Fatalf("expected stock reservation of -2, got %d", got)
	}
	if len(f.emitter.events) != 2 {
		t.Fatalf("expected order and cart events, got %d", len(f.emitter.events))
	}
	if view.Phone != order.Phone || view.Email != order.Email {
		t.Fatalf("expected contact on the view, got %q/%q", view.Phone, view.Email)
	}
}

func TestSubmitRequiresContactPhone(t *testing.T) {
	f := newCheckoutFixture(t)
	f.userRepo.user.Phone = nil

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.orderRepo.created != nil {
		t.Fatal("an order must not be created without a phone")
	}
	if f.cartRepo.convertedID != nil {
		t.Fatal("the cart must stay active")
	}

	blank := "   "
	f.userRepo.user.Phone = &blank
	_, err = f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank phone, got %v", err)
	}
}

func TestSubmitPickupLocation(t *testing.T) {
	f := newCheckoutFixture(t)
	// Pickup orders need no shipping address on the account.
	f.userRepo.user.ShippingAddress = nil
	pickupID := uuid.New()
	f.deliveryRepo.location = &models.PickupLocation{ID: pickupID, Name: "Loja Centro", IsActive: true}

	input := cashSubmit(10000)
	input.Shipping.PickupLocationID = &pickupID

	view, err := f.svc.Submit(context.Background(), f.userID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.created
	if order.PickupLocationID == nil || *order.PickupLocationID != pickupID {
		t.Fatalf("expected pickup location persisted, got %v", order.PickupLocationID)
	}
	if order.ShippingLine.Carrier != "pickup" || order.ShippingLine.Service != "Loja Centro" {
		t.Fatalf("unexpected shipping line %+v", order.ShippingLine)
	}
	if order.ShippingFeeCents != 0 || order.TotalCents != 10000 {
		t.Fatalf("pickup must not charge shipping, got %d/%d", order.ShippingFeeCents, order.TotalCents)
	}
	if f.quoter.calls != 0 {
		t.Fatalf("pickup must not request carrier rates, got %d calls", f.quoter.calls)
	}
	if view.PickupLocationID == nil || *view.PickupLocationID != pickupID {
		t.Fatalf("expected pickup location on the view, got %v", view.PickupLocationID)
	}
}

func TestSubmitRejectsPickupCombinedWithDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	pickupID := uuid.New()
	f.deliveryRepo.location = &models.PickupLocation{ID: pickupID, Name: "Loja Centro", IsActive: true}

	input := cashSubmit(15000)
	input.Shipping.PickupLocationID = &pickupID
	input.Shipping.Carrier = "correios"

	_, err := f.svc.Submit(context.Background(), f.userID, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitInactivePickupLocation(t *testing.T) {
	f := newCheckoutFixture(t)
	pickupID := uuid.New()
	f.deliveryRepo.location = &models.PickupLocation{ID: pickupID, Name: "Fechada", IsActive: false}

	input := cashSubmit(10000)
	input.Shipping.PickupLocationID = &pickupID

	_, err := f.svc.Submit(context.Background(), f.userID, input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.orderRepo.created != nil {
		t.Fatal("an order must not be created for an inactive pickup location")
	}
}

func TestSubmitDeliveryOption(t *testing.T) {
	f := newCheckoutFixture(t)
	optionID := uuid.New()
	f.deliveryRepo.option = &models.DeliveryOption{
		ID:            optionID,
		Name:          "Motoboy",
		FeeCents:      1500,
		EstimatedDays: 1,
		IsActive:      true,
	}

	input := cashSubmit(15000)
	input.Shipping.DeliveryOptionID = &optionID

	_, err := f.svc.Submit(context.Background(), f.userID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.created
	if order.ShippingLine.Carrier != "local" || order.ShippingFeeCents != 1500 {
		t.Fatalf("unexpected shipping line %+v", order.ShippingLine)
	}
	if order.TotalCents != 11500 {
		t.Fatalf("unexpected total %d", order.TotalCents)
	}
	if f.quoter.calls != 0 {
		t.Fatal("local delivery must not request carrier rates")
	}
}

func TestSubmitCashBelowTotalRejected(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(1000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.cartRepo.convertedID != nil {
		t.Fatal("the cart must stay active")
	}
}

func TestSubmitInsufficientStockLeavesCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.productRepo.outOfStock = true

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.orderRepo.created != nil {
		t.Fatal("an order must not be created without stock")
	}
	if f.cartRepo.convertedID != nil {
		t.Fatal("the cart must stay active")
	}
}

func TestSubmitOrderCreateFailureLeavesCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.orderRepo.createErr = errors.New("insert failed")

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if f.cartRepo.convertedID != nil {
		t.Fatal("a failed submission must leave the cart intact")
	}
	if len(f.emitter.events) != 0 {
		t.Fatal("no events must be emitted on failure")
	}
}

func TestSubmitCouponExhaustedMidTransaction(t *testing.T) {
	f := newCheckoutFixture(t)
	f.cartRepo.cart.Coupon = &models.Coupon{
		ID:       uuid.New(),
		Code:     "SAVE10",
		Kind:     enums.CouponKindFixed,
		Value:    1000,
		IsActive: true,
	}
	f.couponRepo.exhausted = true

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, coupons.ErrExhausted) {
		t.Fatalf("expected ErrExhausted cause, got %v", err)
	}
	if f.cartRepo.convertedID != nil {
		t.Fatal("the cart must stay active")
	}
}

func TestSubmitAppliesCouponAndConsumesUsage(t *testing.T) {
	f := newCheckoutFixture(t)
	couponID := uuid.New()
	f.cartRepo.cart.Coupon = &models.Coupon{
		ID:       couponID,
		Code:     "SAVE10",
		Kind:     enums.CouponKindFixed,
		Value:    1000,
		IsActive: true,
	}

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.created
	if order.DiscountCents != 1000 || order.TotalCents != 11500 {
		t.Fatalf("unexpected discount/total %d/%d", order.DiscountCents, order.TotalCents)
	}
	if order.CouponCode == nil || *order.CouponCode != "SAVE10" {
		t.Fatalf("expected coupon snapshot, got %v", order.CouponCode)
	}
	if len(f.couponRepo.incremented) != 1 || f.couponRepo.incremented[0] != couponID {
		t.Fatalf("expected usage increment for %s, got %v", couponID, f.couponRepo.incremented)
	}
}

func TestSubmitScopedCouponDiscountsEligibleLinesOnly(t *testing.T) {
	f := newCheckoutFixture(t)

	scopedCategory := uuid.New()
	scopedProduct := &models.Product{
		ID:         uuid.New(),
		CategoryID: scopedCategory,
		Title:      "Wool Scarf",
		PriceCents: 6000,
		IsActive:   true,
	}
	scopedVariant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: scopedProduct.ID,
		Label:     "U",
		SKU:       "WS-U",
		Stock:     3,
		IsActive:  true,
	}
	f.cartRepo.cart.Items = append(f.cartRepo.cart.Items, models.CartItem{
		ProductID:      scopedProduct.ID,
		VariantID:      scopedVariant.ID,
		Quantity:       1,
		UnitPriceCents: 6000,
		Product:        scopedProduct,
		Variant:        scopedVariant,
	})
	f.cartRepo.cart.Coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "SCARF10",
		Kind:          enums.CouponKindPercent,
		Value:         10,
		CategoryScope: []string{scopedCategory.String()},
		IsActive:      true,
	}

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(25000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.created
	// 10% of the 6000-cent scoped line only, never of the 10000-cent rest.
	if order.DiscountCents != 600 {
		t.Fatalf("expected scoped discount of 600, got %d", order.DiscountCents)
	}
	if order.TotalCents != 16000-600+2500 {
		t.Fatalf("unexpected total %d", order.TotalCents)
	}
}

func TestSubmitScopedCouponWithNoEligibleLines(t *testing.T) {
	f := newCheckoutFixture(t)
	f.cartRepo.cart.Coupon = &models.Coupon{
		ID:            uuid.New(),
		Code:          "ELSEWHERE",
		Kind:          enums.CouponKindPercent,
		Value:         10,
		CategoryScope: []string{uuid.NewString()},
		IsActive:      true,
	}

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.Is(err, coupons.ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope cause, got %v", err)
	}
}

func TestSubmitWithoutAddressForDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	f.userRepo.user.ShippingAddress = nil

	_, err := f.svc.Submit(context.Background(), f.userID, cashSubmit(15000))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
