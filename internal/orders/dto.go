package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// ItemView is one purchased line as rendered to the client.
type ItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	Title          string    `json:"title"`
	VariantLabel   string    `json:"variant_label"`
	SKU            string    `json:"sku"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	TotalCents     int       `json:"total_cents"`
}

// View is the client-facing order shape.
type View struct {
	ID               uuid.UUID            `json:"id"`
	UserID           uuid.UUID            `json:"user_id"`
	Status           enums.OrderStatus    `json:"status"`
	PaymentMethod    enums.PaymentMethod  `json:"payment_method"`
	PaymentDetail    *enums.PaymentDetail `json:"payment_detail,omitempty"`
	CashInHandCents  *int                 `json:"cash_in_hand_cents,omitempty"`
	ChangeDueCents   *int                 `json:"change_due_cents,omitempty"`
	Phone            string               `json:"phone"`
	Email            string               `json:"email"`
	ShippingAddress  types.Address        `json:"shipping_address"`
	ShippingLine     types.ShippingLine   `json:"shipping_line"`
	PickupLocationID *uuid.UUID           `json:"pickup_location_id,omitempty"`
	CouponCode       *string              `json:"coupon_code,omitempty"`
	SubtotalCents    int                  `json:"subtotal_cents"`
	DiscountCents    int                  `json:"discount_cents"`
	ShippingFeeCents int                  `json:"shipping_fee_cents"`
	TotalCents       int                  `json:"total_cents"`
	Items            []ItemView           `json:"items"`
	CreatedAt        time.Time            `json:"created_at"`
}

// NewView maps an order row to its client-facing shape.
func NewView(order *models.Order) View {
	if order == nil {
		return View{}
	}

	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Title:          item.Title,
			VariantLabel:   item.VariantLabel,
			SKU:            item.SKU,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}

	return View{
		ID:               order.ID,
		UserID:           order.UserID,
		Status:           order.Status,
		PaymentMethod:    order.PaymentMethod,
		PaymentDetail:    order.PaymentDetail,
		CashInHandCents:  order.CashInHandCents,
		ChangeDueCents:   order.ChangeDueCents,
		Phone:            order.Phone,
		Email:            order.Email,
		ShippingAddress:  order.ShippingAddress,
		ShippingLine:     order.ShippingLine,
		PickupLocationID: order.PickupLocationID,
		CouponCode:       order.CouponCode,
		SubtotalCents:    order.SubtotalCents,
		DiscountCents:    order.DiscountCents,
		ShippingFeeCents: order.ShippingFeeCents,
		TotalCents:       order.TotalCents,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}
