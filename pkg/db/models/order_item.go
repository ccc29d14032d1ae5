package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a purchased variant line. Title, label and SKU are
// copied so later catalog edits never rewrite history.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	Title          string    `gorm:"column:title;not null"`
	VariantLabel   string    `gorm:"column:variant_label;not null"`
	SKU            string    `gorm:"column:sku;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	TotalCents     int       `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
