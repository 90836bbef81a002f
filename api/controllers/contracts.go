package controllers

import (
	"net/http"

	"github.com/quanmat/fasalmitra-backend/api/responses"
	"github.com/quanmat/fasalmitra-backend/api/validators"
	"github.com/quanmat/fasalmitra-backend/internal/contracts"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

func contractsUnavailable(svc contracts.Service) error {
	if svc == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "contracts service unavailable")
	}
	return nil
}

// AcceptContractTemplate turns an approved template into a pending contract.
func AcceptContractTemplate(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := contractsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buyerID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body contracts.AcceptTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contract, err := svc.Accept(r.Context(), buyerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contract)
	}
}

// ListContracts returns the contracts the caller is a party to.
func ListContracts(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := contractsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetContract returns a contract visible to the caller.
func GetContract(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := contractsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := uuidParam(r, "contractId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contract, err := svc.Get(r.Context(), userID, callerRole(r.Context()), contractID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contract)
	}
}

// InitiateEsign opens (or replays) the caller's signing session on a contract.
func InitiateEsign(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := contractsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contractID, err := uuidParam(r, "contractId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.InitiateEsign(r.Context(), userID, contractID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// EsignWebhook receives signing callbacks from the e-sign provider.
// The route is public; unknown verification ids are rejected downstream.
func EsignWebhook(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := contractsUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload contracts.EsignWebhookPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.HandleEsignWebhook(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "processed"})
	}
}
