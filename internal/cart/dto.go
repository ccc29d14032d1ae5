package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/internal/coupons"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// ItemView is one line of the cart as rendered to the client.
type ItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	Title          string    `json:"title"`
	VariantLabel   string    `json:"variant_label"`
	SKU            string    `json:"sku"`
	ImageURL       string    `json:"image_url,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	LineTotalCents int       `json:"line_total_cents"`
	StockLeft      int       `json:"stock_left"`
}

// View is the cart with computed totals. DiscountCents is zero when the
// applied coupon is no longer usable against the current subtotal.
type View struct {
	ID            uuid.UUID  `json:"id"`
	Items         []ItemView `json:"items"`
	CouponCode    *string    `json:"coupon_code,omitempty"`
	SubtotalCents int        `json:"subtotal_cents"`
	DiscountCents int        `json:"discount_cents"`
	TotalCents    int        `json:"total_cents"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewView maps a loaded cart to its client-facing shape, recomputing totals
// from the line snapshots.
func NewView(cart *models.CartRecord, at time.Time) View {
	if cart == nil {
		return View{}
	}

	items := make([]ItemView, 0, len(cart.Items))
	subtotal := 0
	for _, item := range cart.Items {
		line := ItemView{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.Quantity * item.UnitPriceCents,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			if len(item.Product.Images) > 0 {
				line.ImageURL = item.Product.Images[0]
			}
		}
		if item.Variant != nil {
			line.VariantLabel = item.Variant.Label
			line.SKU = item.Variant.SKU
			line.StockLeft = item.Variant.Stock
		}
		items = append(items, line)
		subtotal += line.LineTotalCents
	}

	view := View{
		ID:            cart.ID,
		Items:         items,
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
		UpdatedAt:     cart.UpdatedAt,
	}
	if cart.Coupon != nil {
		view.CouponCode = &cart.Coupon.Code
		if coupons.Usable(cart.Coupon, subtotal, at) == nil {
			eligible := coupons.ScopedSubtotal(cart.Coupon, cart.Items)
			view.DiscountCents = coupons.Discount(cart.Coupon, eligible)
			view.TotalCents = subtotal - view.DiscountCents
		}
	}
	return view
}
