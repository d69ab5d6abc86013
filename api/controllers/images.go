package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/api/validators"
	"github.com/quyetngv/bds-backend/internal/images"
	"github.com/quyetngv/bds-backend/pkg/logger"
)

type imageAppendRequest struct {
	URL     string  `json:"url" validate:"required,url"`
	Caption *string `json:"caption"`
}

// ImageList returns a listing's gallery in display order.
func ImageList(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ImageAppend adds an uploaded photo at the end of the gallery.
func ImageAppend(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload imageAppendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Append(r.Context(), propertyID, payload.URL, payload.Caption)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// ImageSetPrimary moves the cover flag to one image.
func ImageSetPrimary(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseUUIDParam(chi.URLParam(r, "imageID"), "imageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPrimary(r.Context(), propertyID, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "primary_set"})
	}
}

// ImageDelete removes one image without touching the others' flags or order.
func ImageDelete(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imageID, err := validators.ParseUUIDParam(chi.URLParam(r, "imageID"), "imageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
