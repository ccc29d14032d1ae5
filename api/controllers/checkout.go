package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	checkoutsvc "github.com/vitrinelabs/vitrine-backend/internal/checkout"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type checkoutRequest struct {
	Payment struct {
		Method          string  `json:"method" validate:"required"`
		Detail          *string `json:"detail,omitempty"`
		CashInHandCents *int    `json:"cash_in_hand_cents,omitempty"`
	} `json:"payment" validate:"required"`
	Shipping struct {
		PickupLocationID *uuid.UUID `json:"pickup_location_id,omitempty"`
		DeliveryOptionID *uuid.UUID `json:"delivery_option_id,omitempty"`
		Carrier          string     `json:"carrier,omitempty"`
		Service          string     `json:"service,omitempty"`
	} `json:"shipping"`
}

// ShippingQuote returns carrier rates and local delivery options for the
// active cart.
func ShippingQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Quote(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Checkout submits the active cart as an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), userID, checkoutsvc.SubmitInput{
			Payment: checkoutsvc.PaymentInput{
				Method:          payload.Payment.Method,
				Detail:          payload.Payment.Detail,
				CashInHandCents: payload.Payment.CashInHandCents,
			},
			Shipping: checkoutsvc.ShippingChoice{
				PickupLocationID: payload.Shipping.PickupLocationID,
				DeliveryOptionID: payload.Shipping.DeliveryOptionID,
				Carrier:          payload.Shipping.Carrier,
				Service:          payload.Shipping.Service,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
