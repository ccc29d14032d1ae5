package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// VariantView is the client-facing shape of a sellable unit.
type VariantView struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	SKU         string    `json:"sku"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	WeightGrams int       `json:"weight_grams"`
	IsActive    bool      `json:"is_active"`
}

// View is the client-facing listing shape. DiscountPercent is present only
// when the compare-at price genuinely exceeds the current one.
type View struct {
	ID                  uuid.UUID     `json:"id"`
	Title               string        `json:"title"`
	Slug                string        `json:"slug"`
	Description         *string       `json:"description,omitempty"`
	CategoryID          uuid.UUID     `json:"category_id"`
	BrandID             *uuid.UUID    `json:"brand_id,omitempty"`
	PriceCents          int           `json:"price_cents"`
	CompareAtPriceCents *int          `json:"compare_at_price_cents,omitempty"`
	DiscountPercent     *int          `json:"discount_percent,omitempty"`
	Images              []string      `json:"images"`
	IsActive            bool          `json:"is_active"`
	IsFeatured          bool          `json:"is_featured"`
	AvailableStock      int           `json:"available_stock"`
	Variants            []VariantView `json:"variants"`
	CreatedAt           time.Time     `json:"created_at"`
}

// NewView maps a product row to its client-facing shape.
func NewView(product *models.Product) View {
	if product == nil {
		return View{}
	}

	variants := make([]VariantView, 0, len(product.Variants))
	stock := 0
	for _, variant := range product.Variants {
		price := product.PriceCents
		if variant.PriceCents != nil {
			price = *variant.PriceCents
		}
		variants = append(variants, VariantView{
			ID:          variant.ID,
			Label:       variant.Label,
			SKU:         variant.SKU,
			PriceCents:  price,
			Stock:       variant.Stock,
			WeightGrams: variant.WeightGrams,
			IsActive:    variant.IsActive,
		})
		if variant.IsActive {
			stock += variant.Stock
		}
	}

	return View{
		ID:                  product.ID,
		Title:               product.Title,
		Slug:                product.Slug,
		Description:         product.Description,
		CategoryID:          product.CategoryID,
		BrandID:             product.BrandID,
		PriceCents:          product.PriceCents,
		CompareAtPriceCents: product.CompareAtPriceCents,
		DiscountPercent:     discountPercent(product.CompareAtPriceCents, product.PriceCents),
		Images:              product.Images,
		IsActive:            product.IsActive,
		IsFeatured:          product.IsFeatured,
		AvailableStock:      stock,
		Variants:            variants,
		CreatedAt:           product.CreatedAt,
	}
}

func discountPercent(compareAt *int, price int) *int {
	if compareAt == nil || *compareAt <= price || *compareAt <= 0 {
		return nil
	}
	old := decimal.NewFromInt(int64(*compareAt))
	diff := old.Sub(decimal.NewFromInt(int64(price)))
	percent := int(diff.Div(old).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	if percent <= 0 {
		return nil
	}
	return &percent
}
