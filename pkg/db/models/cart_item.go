package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one variant line inside a cart. UnitPriceCents snapshots the
// effective price at the moment the line was added.
type CartItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Quantity       int             `gorm:"column:quantity;not null;default:1"`
	UnitPriceCents int             `gorm:"column:unit_price_cents;not null"`
	Product        *Product        `gorm:"foreignKey:ProductID"`
	Variant        *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
