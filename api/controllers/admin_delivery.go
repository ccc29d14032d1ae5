package controllers

import (
	"net/http"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	deliverysvc "github.com/vitrinelabs/vitrine-backend/internal/delivery"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

type deliveryOptionRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description,omitempty"`
	FeeCents      int     `json:"fee_cents" validate:"min=0"`
	EstimatedDays int     `json:"estimated_days" validate:"min=0"`
	IsActive      bool    `json:"is_active"`
}

type updateDeliveryOptionRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	FeeCents      *int    `json:"fee_cents,omitempty"`
	EstimatedDays *int    `json:"estimated_days,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type pickupLocationRequest struct {
	Name     string        `json:"name" validate:"required"`
	Address  types.Address `json:"address" validate:"required"`
	Phone    *string       `json:"phone,omitempty"`
	IsActive bool          `json:"is_active"`
}

type updatePickupLocationRequest struct {
	Name     *string        `json:"name,omitempty"`
	Address  *types.Address `json:"address,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// AdminListDeliveryOptions lists all delivery methods including disabled ones.
func AdminListDeliveryOptions(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListOptions(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func AdminCreateDeliveryOption(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload deliveryOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.CreateOption(r.Context(), deliverysvc.OptionInput{
			Name:          payload.Name,
			Description:   payload.Description,
			FeeCents:      payload.FeeCents,
			EstimatedDays: payload.EstimatedDays,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, option)
	}
}

func AdminUpdateDeliveryOption(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optionID, err := parseUUIDParam(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDeliveryOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.UpdateOption(r.Context(), optionID, deliverysvc.UpdateOptionInput{
			Name:          payload.Name,
			Description:   payload.Description,
			FeeCents:      payload.FeeCents,
			EstimatedDays: payload.EstimatedDays,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, option)
	}
}

func AdminDeleteDeliveryOption(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		optionID, err := parseUUIDParam(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOption(r.Context(), optionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminListPickupLocations lists all pickup points including disabled ones.
func AdminListPickupLocations(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListLocations(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func AdminCreatePickupLocation(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pickupLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.CreateLocation(r.Context(), deliverysvc.LocationInput{
			Name:     payload.Name,
			Address:  payload.Address,
			Phone:    payload.Phone,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, location)
	}
}

func AdminUpdatePickupLocation(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := parseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePickupLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.UpdateLocation(r.Context(), locationID, deliverysvc.UpdateLocationInput{
			Name:     payload.Name,
			Address:  payload.Address,
			Phone:    payload.Phone,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

func AdminDeletePickupLocation(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := parseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteLocation(r.Context(), locationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
