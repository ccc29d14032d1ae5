package controllers

import (
	"net/http"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	addrsvc "github.com/vitrinelabs/vitrine-backend/internal/addresses"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type updateAddressRequest struct {
	PostalCode   string `json:"postal_code" validate:"required"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
}

// AddressLookup resolves a postal code against the CEP registry.
func AddressLookup(svc addrsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postalCode := r.URL.Query().Get("postal_code")
		if postalCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "postal_code is required"))
			return
		}

		result, err := svc.Lookup(r.Context(), postalCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AddressFetch returns the saved shipping address, or null when unset.
func AddressFetch(svc addrsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressUpdate saves the account shipping address.
func AddressUpdate(svc addrsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Update(r.Context(), userID, addrsvc.UpdateInput{
			PostalCode:   payload.PostalCode,
			Street:       payload.Street,
			Neighborhood: payload.Neighborhood,
			City:         payload.City,
			State:        payload.State,
			Number:       payload.Number,
			Complement:   payload.Complement,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}
