package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	productsvc "github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

type createProductRequest struct {
	CategoryID          uuid.UUID  `json:"category_id" validate:"required"`
	BrandID             *uuid.UUID `json:"brand_id,omitempty"`
	Title               string     `json:"title" validate:"required"`
	Slug                string     `json:"slug" validate:"required"`
	Description         *string    `json:"description,omitempty"`
	PriceCents          int        `json:"price_cents" validate:"required,min=1"`
	CompareAtPriceCents *int       `json:"compare_at_price_cents,omitempty"`
	Images              []string   `json:"images"`
	IsActive            bool       `json:"is_active"`
	IsFeatured          bool       `json:"is_featured"`
}

type updateProductRequest struct {
	CategoryID          *uuid.UUID `json:"category_id,omitempty"`
	BrandID             *uuid.UUID `json:"brand_id,omitempty"`
	Title               *string    `json:"title,omitempty"`
	Slug                *string    `json:"slug,omitempty"`
	Description         *string    `json:"description,omitempty"`
	PriceCents          *int       `json:"price_cents,omitempty"`
	CompareAtPriceCents *int       `json:"compare_at_price_cents,omitempty"`
	Images              []string   `json:"images,omitempty"`
	IsActive            *bool      `json:"is_active,omitempty"`
	IsFeatured          *bool      `json:"is_featured,omitempty"`
}

type variantRequest struct {
	Label       string `json:"label" validate:"required"`
	SKU         string `json:"sku" validate:"required"`
	PriceCents  *int   `json:"price_cents,omitempty"`
	Stock       int    `json:"stock" validate:"min=0"`
	WeightGrams int    `json:"weight_grams" validate:"min=0"`
	LengthCM    *int   `json:"length_cm,omitempty"`
	WidthCM     *int   `json:"width_cm,omitempty"`
	HeightCM    *int   `json:"height_cm,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type updateVariantRequest struct {
	Label       *string `json:"label,omitempty"`
	SKU         *string `json:"sku,omitempty"`
	PriceCents  *int    `json:"price_cents,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	WeightGrams *int    `json:"weight_grams,omitempty"`
	LengthCM    *int    `json:"length_cm,omitempty"`
	WidthCM     *int    `json:"width_cm,omitempty"`
	HeightCM    *int    `json:"height_cm,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// AdminListProducts lists all products including inactive ones.
func AdminListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := parseOptionalUUIDQuery(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), productsvc.ListParams{
			Limit:      limit,
			Cursor:     r.URL.Query().Get("cursor"),
			CategoryID: categoryID,
			Search:     validators.SanitizeString(r.URL.Query().Get("q"), 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminGetProduct returns one product regardless of visibility.
func AdminGetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminCreateProduct creates a catalog listing.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), productsvc.CreateInput{
			CategoryID:          payload.CategoryID,
			BrandID:             payload.BrandID,
			Title:               payload.Title,
			Slug:                payload.Slug,
			Description:         payload.Description,
			PriceCents:          payload.PriceCents,
			CompareAtPriceCents: payload.CompareAtPriceCents,
			Images:              payload.Images,
			IsActive:            payload.IsActive,
			IsFeatured:          payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminUpdateProduct applies partial edits to a listing.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), productID, productsvc.UpdateInput{
			CategoryID:          payload.CategoryID,
			BrandID:             payload.BrandID,
			Title:               payload.Title,
			Slug:                payload.Slug,
			Description:         payload.Description,
			PriceCents:          payload.PriceCents,
			CompareAtPriceCents: payload.CompareAtPriceCents,
			Images:              payload.Images,
			IsActive:            payload.IsActive,
			IsFeatured:          payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminDeleteProduct removes a listing and its variants.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminCreateVariant adds a sellable unit to a product.
func AdminCreateVariant(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload variantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateVariant(r.Context(), productID, productsvc.VariantInput{
			Label:       payload.Label,
			SKU:         payload.SKU,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			WeightGrams: payload.WeightGrams,
			LengthCM:    payload.LengthCM,
			WidthCM:     payload.WidthCM,
			HeightCM:    payload.HeightCM,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminUpdateVariant applies partial edits to a sellable unit.
func AdminUpdateVariant(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := parseUUIDParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateVariant(r.Context(), productID, variantID, productsvc.UpdateVariantInput{
			Label:       payload.Label,
			SKU:         payload.SKU,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			WeightGrams: payload.WeightGrams,
			LengthCM:    payload.LengthCM,
			WidthCM:     payload.WidthCM,
			HeightCM:    payload.HeightCM,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminDeleteVariant removes a sellable unit.
func AdminDeleteVariant(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := parseUUIDParam(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVariant(r.Context(), productID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
