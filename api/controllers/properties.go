package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/api/validators"
	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/enums"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

type propertySaveRequest struct {
	Title       string          `json:"title" validate:"required"`
	ListingType string          `json:"listing_type" validate:"required,oneof=sale rent"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Negotiable  bool            `json:"negotiable"`
	Area        float64         `json:"area"`
	Address     string          `json:"address"`
	Ward        *string         `json:"ward"`
	District    string          `json:"district"`
	City        string          `json:"city"`
	ProjectID   *uuid.UUID      `json:"project_id"`
	Status      string          `json:"status" validate:"required,oneof=available sold rented"`
	Bedrooms    *int            `json:"bedrooms"`
	Bathrooms   *int            `json:"bathrooms"`
	Floors      *int            `json:"floors"`
	FloorNumber *int            `json:"floor_number"`
	Featured    bool            `json:"featured"`
	Verified    bool            `json:"verified"`

	AmenityIDs []uuid.UUID `json:"amenity_ids"`
	SellerIDs  []uuid.UUID `json:"seller_ids"`
	// VideoURLs is the admin form's newline-delimited textarea blob.
	VideoURLs string `json:"video_urls"`
}

func (r propertySaveRequest) toInput(id *uuid.UUID) properties.SaveInput {
	return properties.SaveInput{
		ID:          id,
		Title:       r.Title,
		ListingType: enums.ListingType(r.ListingType),
		Price:       r.Price,
		Currency:    r.Currency,
		Negotiable:  r.Negotiable,
		Area:        r.Area,
		Address:     r.Address,
		Ward:        r.Ward,
		District:    r.District,
		City:        r.City,
		ProjectID:   r.ProjectID,
		Status:      enums.PropertyStatus(r.Status),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Floors:      r.Floors,
		FloorNumber: r.FloorNumber,
		Featured:    r.Featured,
		Verified:    r.Verified,
		AmenityIDs:  r.AmenityIDs,
		SellerIDs:   r.SellerIDs,
		VideoURLs:   properties.SplitVideoURLs(r.VideoURLs),
	}
}

// PropertyCreate handles creating a listing with its full relation set.
func PropertyCreate(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload propertySaveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Save(r.Context(), payload.toInput(nil))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PropertyUpdate re-saves a listing; relations converge to the request's sets.
func PropertyUpdate(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload propertySaveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Save(r.Context(), payload.toInput(&id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func PropertyGet(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func PropertyDelete(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func PropertyList(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), properties.ListInput{
			Filters: properties.ListFilters{
				Query:    r.URL.Query().Get("q"),
				City:     r.URL.Query().Get("city"),
				District: r.URL.Query().Get("district"),
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type propertyPublishRequest struct {
	Message string `json:"message"`
}

// PropertyPublish fans the listing out to every eligible target group, or
// queues the request when relay mode delegates delivery.
func PropertyPublish(svc publish.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload propertyPublishRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		outcome, err := svc.PublishProperty(r.Context(), publish.PublishInput{
			PropertyID: id,
			Message:    strings.TrimSpace(payload.Message),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if outcome.Queued {
			status = http.StatusAccepted
		}
		responses.WriteSuccessStatus(w, status, outcome)
	}
}

// PropertyPublishHistory lists the audit trail scoped to one listing.
func PropertyPublishHistory(svc publish.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "propertyID"), "propertyID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), publish.HistoryFilters{
			Status:     r.URL.Query().Get("status"),
			Query:      r.URL.Query().Get("q"),
			PropertyID: &id,
		}, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
