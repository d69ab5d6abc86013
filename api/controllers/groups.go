package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quyetngv/bds-backend/api/responses"
	"github.com/quyetngv/bds-backend/api/validators"
	"github.com/quyetngv/bds-backend/internal/groups"
	"github.com/quyetngv/bds-backend/pkg/enums"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

type groupSaveRequest struct {
	Name     string  `json:"name" validate:"required"`
	GroupID  *string `json:"group_id"`
	URL      *string `json:"url"`
	Kind     string  `json:"kind" validate:"required,oneof=source target"`
	IsActive bool    `json:"is_active"`
	Note     *string `json:"note"`
}

func (r groupSaveRequest) toInput() groups.SaveGroupInput {
	return groups.SaveGroupInput{
		Name:     r.Name,
		GroupID:  r.GroupID,
		URL:      r.URL,
		Kind:     enums.GroupKind(r.Kind),
		IsActive: r.IsActive,
		Note:     r.Note,
	}
}

func GroupCreate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload groupSaveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

func GroupUpdate(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload groupSaveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

func GroupGet(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

func GroupDelete(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "groupID"), "groupID")
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

func GroupList(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := groups.ListInput{
			Query: r.URL.Query().Get("q"),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind := enums.GroupKind(raw)
			if !kind.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid kind filter"))
				return
			}
			input.Kind = &kind
		}

		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IsActive = isActive

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
