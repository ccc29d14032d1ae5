package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Coupon applies a percent or fixed discount to the cart subtotal. Value is
// a percentage for percent coupons and cents for fixed ones. An empty
// CategoryScope covers every product; otherwise only lines in the listed
// categories count toward the discount.
type Coupon struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string           `gorm:"column:code;not null;uniqueIndex"`
	Kind             enums.CouponKind `gorm:"column:kind;type:coupon_kind;not null"`
	Value            int              `gorm:"column:value;not null"`
	MinSubtotalCents int              `gorm:"column:min_subtotal_cents;not null;default:0"`
	MaxUses          *int             `gorm:"column:max_uses"`
	UsedCount        int              `gorm:"column:used_count;not null;default:0"`
	CategoryScope    pq.StringArray   `gorm:"column:category_scope;type:uuid[]"`
	StartsAt         *time.Time       `gorm:"column:starts_at"`
	ExpiresAt        *time.Time       `gorm:"column:expires_at"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
