package checkout

import (
	"context"
	"errors"
	"strings"
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
	"github.com/vitrinelabs/vitrine-backend/pkg/metrics"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox/payloads"
	"github.com/vitrinelabs/vitrine-backend/pkg/shipping"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// Service turns the active cart into an immutable order.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID) (*QuoteResult, error)
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*orders.View, error)
}

type quoter interface {
	Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.Rate, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	cartRepo     cart.Repository
	productRepo  products.Repository
	couponRepo   coupons.Repository
	orderRepo    orders.Repository
	userRepo     users.Repository
	deliveryRepo delivery.Repository
	rates        quoter
	dbClient     *db.Client
	events       eventEmitter
	metrics      *metrics.CheckoutMetrics
	shippingCfg  config.ShippingConfig
}

// ShippingChoice selects how the order is fulfilled: collection at a pickup
// location, a local delivery option by id, or a carrier rate by carrier and
// service name. Empty means cheapest carrier.
type ShippingChoice struct {
	PickupLocationID *uuid.UUID `json:"pickup_location_id,omitempty"`
	DeliveryOptionID *uuid.UUID `json:"delivery_option_id,omitempty"`
	Carrier          string     `json:"carrier,omitempty"`
	Service          string     `json:"service,omitempty"`
}

// SubmitInput is the checkout submission payload.
type SubmitInput struct {
	Payment  PaymentInput   `json:"payment"`
	Shipping ShippingChoice `json:"shipping"`
}

// QuoteResult carries the shipping options available to the cart: carrier
// rates for the derived parcel plus the store's own delivery options.
type QuoteResult struct {
	Rates           []types.ShippingLine    `json:"rates"`
	DeliveryOptions []models.DeliveryOption `json:"delivery_options"`
}

// NewService wires checkout dependencies.
func NewService(
	cartRepo cart.Repository,
	productRepo products.Repository,
	couponRepo coupons.Repository,
	orderRepo orders.Repository,
	userRepo users.Repository,
	deliveryRepo delivery.Repository,
	rates quoter,
	dbClient *db.Client,
	events eventEmitter,
	checkoutMetrics *metrics.CheckoutMetrics,
	shippingCfg config.ShippingConfig,
) (Service, error) {
	if cartRepo == nil || productRepo == nil || couponRepo == nil || orderRepo == nil ||
		userRepo == nil || deliveryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout repositories required")
	}
	if rates == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shipping client required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox service required")
	}
	return &service{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		couponRepo:   couponRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		deliveryRepo: deliveryRepo,
		rates:        rates,
		dbClient:     dbClient,
		events:       events,
		metrics:      checkoutMetrics,
		shippingCfg:  shippingCfg,
	}, nil
}

// Quote derives the parcel from the active cart and returns carrier rates
// alongside the store's local delivery options.
func (s *service) Quote(ctx context.Context, userID uuid.UUID) (*QuoteResult, error) {
	activeCart, user, err := s.loadActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ShippingAddress == nil || user.ShippingAddress.PostalCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required before quoting")
	}

	rates, err := s.rates.Quote(ctx, shipping.QuoteRequest{
		OriginPostalCode:      s.shippingCfg.OriginPostalCode,
		DestinationPostalCode: user.ShippingAddress.PostalCode,
		Package:               buildPackage(activeCart.Items, s.shippingCfg),
	})
	if err != nil {
		return nil, err
	}

	options, err := s.deliveryRepo.ListOptions(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery options")
	}

	lines := make([]types.ShippingLine, 0, len(rates))
	for _, rate := range rates {
		lines = append(lines, types.ShippingLine{
			Carrier:       rate.Carrier,
			Service:       rate.Service,
			FeeCents:      rate.PriceCents,
			EstimatedDays: rate.EstimatedDays,
		})
	}
	return &QuoteResult{Rates: lines, DeliveryOptions: options}, nil
}

// Submit validates payment, shipping, and the account contact, reserves
// stock, and freezes the active cart into an order inside one transaction.
// The account phone and email are snapshotted onto the order; submission
// fails without a phone. A failed submission leaves the cart untouched.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*orders.View, error) {
	started := time.Now()
	order, err := s.submit(ctx, userID, input)
	s.metrics.ObserveDuration(input.Payment.Method, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(input.Payment.Method, failureReason(err))
		return nil, err
	}
	s.metrics.IncSuccess(input.Payment.Method)

	view := orders.NewView(order)
	return &view, nil
}

func (s *service) submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*models.Order, error) {
	activeCart, user, err := s.loadActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	phone := ""
	if user.Phone != nil {
		phone = strings.TrimSpace(*user.Phone)
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a contact phone number is required before checkout")
	}

	pickup := input.Shipping.PickupLocationID != nil
	if pickup && (input.Shipping.DeliveryOptionID != nil || input.Shipping.Carrier != "" || input.Shipping.Service != "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "choose either pickup or delivery, not both")
	}
	if !pickup && (user.ShippingAddress == nil || user.ShippingAddress.PostalCode == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required before checkout")
	}
	address := types.Address{}
	if user.ShippingAddress != nil {
		address = *user.ShippingAddress
	}

	subtotal := 0
	for _, item := range activeCart.Items {
		subtotal += item.Quantity * item.UnitPriceCents
	}

	now := time.Now().UTC()
	discount := 0
	var couponCode *string
	if activeCart.Coupon != nil {
		if err := coupons.Usable(activeCart.Coupon, subtotal, now); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		eligible := coupons.ScopedSubtotal(activeCart.Coupon, activeCart.Items)
		if eligible == 0 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, coupons.ErrOutOfScope, coupons.ErrOutOfScope.Error())
		}
		discount = coupons.Discount(activeCart.Coupon, eligible)
		couponCode = &activeCart.Coupon.Code
	}

	line, err := s.resolveShippingLine(ctx, activeCart, address.PostalCode, input.Shipping)
	if err != nil {
		return nil, err
	}

	total := subtotal - discount + line.FeeCents
	payment, err := SelectPayment(input.Payment, total)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:           userID,
		CartID:           activeCart.ID,
		Status:           enums.OrderStatusPending,
		PaymentMethod:    payment.Method,
		PaymentDetail:    payment.Detail,
		CashInHandCents:  payment.CashInHandCents,
		ChangeDueCents:   payment.ChangeDueCents,
		Phone:            phone,
		Email:            user.Email,
		ShippingAddress:  address,
		ShippingLine:     *line,
		PickupLocationID: input.Shipping.PickupLocationID,
		CouponCode:       couponCode,
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		ShippingFeeCents: line.FeeCents,
		TotalCents:       total,
	}
	for _, item := range activeCart.Items {
		orderItem := models.OrderItem{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.Quantity * item.UnitPriceCents,
		}
		if item.Product != nil {
			orderItem.Title = item.Product.Title
		}
		if item.Variant != nil {
			orderItem.VariantLabel = item.Variant.Label
			orderItem.SKU = item.Variant.SKU
		}
		order.Items = append(order.Items, orderItem)
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		for _, item := range activeCart.Items {
			affected, txErr := txProducts.AdjustVariantStock(ctx, item.VariantID, -item.Quantity)
			if txErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "reserve stock")
			}
			if affected == 0 {
				return insufficientStockError(item)
			}
		}

		if activeCart.Coupon != nil {
			affected, txErr := s.couponRepo.WithTx(tx).IncrementUsage(ctx, activeCart.Coupon.ID)
			if txErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "consume coupon")
			}
			if affected == 0 {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, coupons.ErrExhausted, coupons.ErrExhausted.Error())
			}
		}

		if txErr := s.orderRepo.WithTx(tx).Create(ctx, order); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "create order")
		}

		if txErr := s.cartRepo.WithTx(tx).MarkConverted(ctx, activeCart.ID, now); txErr != nil {
			if errors.Is(txErr, cart.ErrNotFound) {
				return pkgerrors.New(pkgerrors.CodeConflict, "cart already converted")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "convert cart")
		}

		actor := &outbox.ActorRef{UserID: userID, Role: enums.UserRoleBuyer.String()}
		if txErr := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Data: payloads.OrderCreated{
				OrderID:       order.ID,
				UserID:        userID,
				PaymentMethod: payment.Method.String(),
				TotalCents:    total,
				ItemCount:     len(order.Items),
			},
			Version:    1,
			OccurredAt: now,
		}); txErr != nil {
			return txErr
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCartConverted,
			AggregateType: enums.AggregateCart,
			AggregateID:   activeCart.ID,
			Actor:         actor,
			Data: payloads.CartConverted{
				CartID:  activeCart.ID,
				UserID:  userID,
				OrderID: order.ID,
			},
			Version:    1,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) loadActiveCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, *models.User, error) {
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	activeCart, err := s.cartRepo.FindActiveByUser(ctx, userID)
	if errors.Is(err, cart.ErrNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(activeCart.Items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return activeCart, user, nil
}

func (s *service) resolveShippingLine(ctx context.Context, activeCart *models.CartRecord, destinationPostalCode string, choice ShippingChoice) (*types.ShippingLine, error) {
	if choice.PickupLocationID != nil {
		location, err := s.deliveryRepo.FindLocation(ctx, *choice.PickupLocationID)
		if errors.Is(err, delivery.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup location not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup location")
		}
		if !location.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup location is not available")
		}
		return &types.ShippingLine{
			Carrier: "pickup",
			Service: location.Name,
		}, nil
	}

	if choice.DeliveryOptionID != nil {
		option, err := s.deliveryRepo.FindOption(ctx, *choice.DeliveryOptionID)
		if errors.Is(err, delivery.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery option not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery option")
		}
		if !option.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery option is not available")
		}
		return &types.ShippingLine{
			Carrier:       "local",
			Service:       option.Name,
			FeeCents:      option.FeeCents,
			EstimatedDays: option.EstimatedDays,
		}, nil
	}

	rates, err := s.rates.Quote(ctx, shipping.QuoteRequest{
		OriginPostalCode:      s.shippingCfg.OriginPostalCode,
		DestinationPostalCode: destinationPostalCode,
		Package:               buildPackage(activeCart.Items, s.shippingCfg),
	})
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no shipping rates available")
	}

	selected := cheapestRate(rates)
	if choice.Carrier != "" || choice.Service != "" {
		selected = matchRate(rates, choice.Carrier, choice.Service)
		if selected == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected shipping rate is no longer available")
		}
	}
	return &types.ShippingLine{
		Carrier:       selected.Carrier,
		Service:       selected.Service,
		FeeCents:      selected.PriceCents,
		EstimatedDays: selected.EstimatedDays,
	}, nil
}

func insufficientStockError(item models.CartItem) error {
	msg := "insufficient stock"
	if item.Variant != nil {
		msg = "insufficient stock for " + item.Variant.SKU
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "dependency"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeConflict:
		return "conflict"
	default:
		return "dependency"
	}
}
