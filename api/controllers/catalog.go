package controllers

import (
	"net/http"

	"github.com/quanmat/fasalmitra-backend/api/responses"
	"github.com/quanmat/fasalmitra-backend/api/validators"
	"github.com/quanmat/fasalmitra-backend/internal/catalog"
	pkgerrors "github.com/quanmat/fasalmitra-backend/pkg/errors"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

func catalogUnavailable(svc catalog.Service) error {
	if svc == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable")
	}
	return nil
}

// ListCrops returns the active crop listings.
func ListCrops(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		crops, err := svc.ListCrops(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crops)
	}
}

// AdminCreateCrop adds a crop listing to the catalog.
func AdminCreateCrop(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body catalog.CreateCropRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		crop, err := svc.CreateCrop(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, crop)
	}
}

// CreateContractTemplate files a farmer's template for admin review.
func CreateContractTemplate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmerID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body catalog.CreateTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		template, err := svc.CreateTemplate(r.Context(), farmerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, template)
	}
}

// ListContractTemplates returns the templates visible to the caller's role.
func ListContractTemplates(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		templates, err := svc.ListTemplates(r.Context(), userID, callerRole(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

// GetContractTemplate returns a single template the caller may see.
func GetContractTemplate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		template, err := svc.GetTemplate(r.Context(), userID, callerRole(r.Context()), templateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

// AdminApproveTemplate records the review decision on a template.
func AdminApproveTemplate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalogUnavailable(svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body catalog.ApproveTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AdminApproveTemplate(r.Context(), templateID, body.Approved); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"approved": body.Approved})
	}
}
