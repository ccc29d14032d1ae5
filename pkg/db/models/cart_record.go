package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// CartRecord is a buyer's server-side cart. One active cart exists per user;
// conversion at checkout freezes it.
type CartRecord struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	CouponID    *uuid.UUID       `gorm:"column:coupon_id;type:uuid"`
	Coupon      *Coupon          `gorm:"foreignKey:CouponID"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
