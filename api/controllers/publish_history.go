package controllers

import (
	"net/http"
	"strings"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/api/validators"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// PublishHistory lists dispatch attempts across all listings, newest-first.
func PublishHistory(svc publish.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := publish.HistoryFilters{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Query:  r.URL.Query().Get("q"),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("property_id")); raw != "" {
			propertyID, err := validators.ParseUUIDParam(raw, "property_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.PropertyID = &propertyID
		}

		result, err := svc.History(r.Context(), filters, pagination.Params{
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
