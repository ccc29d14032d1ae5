package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// Order is the immutable record produced by checkout. Money fields are cents;
// contact, address, and shipping line are snapshots taken at submission.
type Order struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	CartID           uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	Status           enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod  `gorm:"column:payment_method;type:payment_method;not null"`
	PaymentDetail    *enums.PaymentDetail `gorm:"column:payment_detail;type:payment_detail"`
	CashInHandCents  *int                 `gorm:"column:cash_in_hand_cents"`
	ChangeDueCents   *int                 `gorm:"column:change_due_cents"`
	Phone            string               `gorm:"column:phone;not null"`
	Email            string               `gorm:"column:email;not null"`
	ShippingAddress  types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	ShippingLine     types.ShippingLine   `gorm:"column:shipping_line;type:jsonb;serializer:json;not null"`
	PickupLocationID *uuid.UUID           `gorm:"column:pickup_location_id;type:uuid"`
	CouponCode       *string              `gorm:"column:coupon_code"`
	SubtotalCents    int                  `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents    int                  `gorm:"column:discount_cents;not null;default:0"`
	ShippingFeeCents int                  `gorm:"column:shipping_fee_cents;not null;default:0"`
	TotalCents       int                  `gorm:"column:total_cents;not null;default:0"`
	Items            []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
