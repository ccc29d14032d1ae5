package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	couponsvc "github.com/vitrinelabs/vitrine-backend/internal/coupons"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type createCouponRequest struct {
	Code             string      `json:"code" validate:"required"`
	Kind             string      `json:"kind" validate:"required,oneof=percent fixed"`
	Value            int         `json:"value" validate:"required,min=1"`
	MinSubtotalCents int         `json:"min_subtotal_cents" validate:"min=0"`
	MaxUses          *int        `json:"max_uses,omitempty"`
	CategoryScope    []uuid.UUID `json:"category_scope,omitempty"`
	StartsAt         *time.Time  `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time  `json:"expires_at,omitempty"`
	IsActive         bool        `json:"is_active"`
}

type updateCouponRequest struct {
	Code             *string      `json:"code,omitempty"`
	Kind             *string      `json:"kind,omitempty" validate:"omitempty,oneof=percent fixed"`
	Value            *int         `json:"value,omitempty"`
	MinSubtotalCents *int         `json:"min_subtotal_cents,omitempty"`
	MaxUses          *int         `json:"max_uses,omitempty"`
	CategoryScope    *[]uuid.UUID `json:"category_scope,omitempty"`
	StartsAt         *time.Time   `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time   `json:"expires_at,omitempty"`
	IsActive         *bool        `json:"is_active,omitempty"`
}

// AdminListCoupons lists every coupon with usage counters.
func AdminListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func AdminCreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Create(r.Context(), couponsvc.CreateInput{
			Code:             payload.Code,
			Kind:             enums.CouponKind(payload.Kind),
			Value:            payload.Value,
			MinSubtotalCents: payload.MinSubtotalCents,
			MaxUses:          payload.MaxUses,
			CategoryScope:    payload.CategoryScope,
			StartsAt:         payload.StartsAt,
			ExpiresAt:        payload.ExpiresAt,
			IsActive:         payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func AdminUpdateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		couponID, err := parseUUIDParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := couponsvc.UpdateInput{
			Code:             payload.Code,
			Value:            payload.Value,
			MinSubtotalCents: payload.MinSubtotalCents,
			MaxUses:          payload.MaxUses,
			CategoryScope:    payload.CategoryScope,
			StartsAt:         payload.StartsAt,
			ExpiresAt:        payload.ExpiresAt,
			IsActive:         payload.IsActive,
		}
		if payload.Kind != nil {
			kind := enums.CouponKind(*payload.Kind)
			input.Kind = &kind
		}

		coupon, err := svc.Update(r.Context(), couponID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func AdminDeleteCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		couponID, err := parseUUIDParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
