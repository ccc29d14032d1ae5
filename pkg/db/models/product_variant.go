package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a sellable unit of a product. Weight and dimensions feed
// the shipping quote; stock gates checkout.
type ProductVariant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Label       string    `gorm:"column:label;not null"`
	SKU         string    `gorm:"column:sku;not null;uniqueIndex"`
	PriceCents  *int      `gorm:"column:price_cents"`
	Stock       int       `gorm:"column:stock;not null;default:0"`
	WeightGrams int       `gorm:"column:weight_grams;not null;default:0"`
	LengthCM    *int      `gorm:"column:length_cm"`
	WidthCM     *int      `gorm:"column:width_cm"`
	HeightCM    *int      `gorm:"column:height_cm"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
