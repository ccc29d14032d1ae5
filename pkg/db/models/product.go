package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents the canonical storefront listing. Stock always lives on
// variants; a product with no variants is not purchasable.
type Product struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID          uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	BrandID             *uuid.UUID       `gorm:"column:brand_id;type:uuid"`
	Title               string           `gorm:"column:title;not null"`
	Slug                string           `gorm:"column:slug;not null;uniqueIndex"`
	Description         *string          `gorm:"column:description"`
	PriceCents          int              `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int             `gorm:"column:compare_at_price_cents"`
	Images              pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive            bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool             `gorm:"column:is_featured;not null;default:false"`
	Category            *Category        `gorm:"foreignKey:CategoryID"`
	Brand               *Brand           `gorm:"foreignKey:BrandID"`
	Variants            []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
